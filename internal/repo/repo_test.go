package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"clubhub/internal/model"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	r, err := NewRepository(&dbpg.DB{Master: db}, &log)
	require.NoError(t, err)
	return r, mock
}

func TestUpdateEvent_PersistsPaymentAndSlug(t *testing.T) {
	r, mock := newMockRepo(t)

	event := &model.Event{
		ID:              4,
		Title:           "Torneo de Verano",
		StartTime:       time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC),
		Location:        "Cancha Central",
		Capacity:        32,
		PaymentRequired: true,
		Price:           15,
		PaymentLink:     "https://pay.example.com/torneo",
		PublicSlug:      "torneo-de-verano-2026",
		IsPublic:        true,
	}

	mock.ExpectQuery("UPDATE events").
		WithArgs(event.Title, event.Description, event.StartTime, event.Location,
			event.Capacity, event.PaymentRequired, event.Price, event.PaymentLink,
			event.PublicSlug, event.IsPublic, event.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	require.NoError(t, r.UpdateEvent(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEvent_UnknownEvent(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE events").WillReturnError(sql.ErrNoRows)

	err := r.UpdateEvent(context.Background(), &model.Event{ID: 99, Title: "Gone"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateEvent_SlugConflict(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE events").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := r.UpdateEvent(context.Background(), &model.Event{ID: 4, PublicSlug: "taken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
}

func TestRegisterTx_DuplicateMapsToSentinel(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(10))
	mock.ExpectQuery(`SUM\(attendee_count\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectQuery("INSERT INTO registrations").
		WillReturnError(&pq.Error{Code: uniqueViolation})
	mock.ExpectRollback()

	_, err := r.RegisterTx(context.Background(), &model.Registration{
		EventID:       1,
		FullName:      "Ana Rivera",
		Email:         "ana@example.com",
		AttendeeCount: 1,
		PaymentStatus: model.PaymentPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterTx_CapacityExhausted(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(5))
	mock.ExpectQuery(`SUM\(attendee_count\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(5))
	mock.ExpectRollback()

	_, err := r.RegisterTx(context.Background(), &model.Registration{
		EventID:       1,
		FullName:      "Luis Ortega",
		Email:         "luis@example.com",
		AttendeeCount: 1,
	})
	assert.ErrorIs(t, err, ErrEventFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}
