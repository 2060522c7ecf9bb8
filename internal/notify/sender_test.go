package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/model"
)

type sentMail struct {
	To      string
	Subject string
	Text    string
}

type stubMailer struct {
	failFor map[string]bool
	sent    []sentMail
}

func (m *stubMailer) Send(to, subject, htmlBody, textBody string, eventID int) SendResult {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Text: textBody})
	if m.failFor[to] {
		return SendResult{Success: false, Message: "send email: connection refused"}
	}
	return SendResult{Success: true, Message: "email sent", ProviderMessageID: "msg-" + to}
}

type stubStore struct {
	event     *model.Event
	records   []*model.NotificationRecord
	emails    []*model.EmailLog
	insertErr error
}

func (s *stubStore) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	if s.event == nil || int64(s.event.ID) != id {
		return nil, errors.New("event not found")
	}
	return s.event, nil
}

func (s *stubStore) InsertNotificationRecord(ctx context.Context, rec *model.NotificationRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *stubStore) InsertEmailLog(ctx context.Context, entry *model.EmailLog) error {
	s.emails = append(s.emails, entry)
	return nil
}

func testSender(store *stubStore, mailer Mailer) *Sender {
	nop := zerolog.Nop()
	renderer := NewRenderer("es", "http://localhost:8080", &nop)
	return NewSender(store, mailer, NewLinkBuilder("1"), renderer, &nop)
}

func clinicEvent() *model.Event {
	return &model.Event{
		ID:        1,
		Title:     "Clinic",
		StartTime: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
		Location:  "Gym A",
	}
}

func TestNotify_GuardianNameAndWhatsAppLink(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	mailer := &stubMailer{}
	sender := testSender(store, mailer)

	rcpt := Recipient{
		FullName:     "Ana",
		GuardianName: "Luz",
		Email:        "luz@example.com",
		Phone:        "+17871234567",
	}

	result, err := sender.Notify(context.Background(), model.NotificationRegistration, rcpt, store.event, "")
	require.NoError(t, err)

	assert.True(t, result.OK)
	assert.True(t, result.Email.Success)
	assert.Contains(t, result.WhatsAppLink, "https://wa.me/17871234567?text=")

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Text, "Luz")
	assert.NotContains(t, mailer.sent[0].Text, "Hola Ana")

	require.Len(t, store.records, 1)
	assert.Equal(t, model.DeliverySent, store.records[0].Status)
	assert.Equal(t, "luz@example.com", store.records[0].Email)
}

func TestNotify_EmailFailureStillBuildsLinkAndRecord(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	mailer := &stubMailer{failFor: map[string]bool{"luz@example.com": true}}
	sender := testSender(store, mailer)

	rcpt := Recipient{FullName: "Ana", GuardianName: "Luz", Email: "luz@example.com", Phone: "7871234567"}

	result, err := sender.Notify(context.Background(), model.NotificationRegistration, rcpt, store.event, "")
	require.NoError(t, err)

	assert.False(t, result.Email.Success)
	assert.NotEmpty(t, result.WhatsAppLink)
	// Link alone counts as overall success, but the record tracks the email channel.
	assert.True(t, result.OK)
	require.Len(t, store.records, 1)
	assert.Equal(t, model.DeliveryFailed, store.records[0].Status)
}

func TestNotify_NoPhoneMeansNoLink(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	sender := testSender(store, &stubMailer{})

	rcpt := Recipient{FullName: "Ana", Email: "ana@example.com"}

	result, err := sender.Notify(context.Background(), model.NotificationReminder, rcpt, store.event, "")
	require.NoError(t, err)

	assert.Empty(t, result.WhatsAppLink)
	assert.True(t, result.OK)
}

func TestNotify_EmptyCustomMessageFallsBack(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	mailer := &stubMailer{}
	sender := testSender(store, mailer)

	rcpt := Recipient{FullName: "Ana", Email: "ana@example.com"}

	_, err := sender.Notify(context.Background(), model.NotificationCustom, rcpt, store.event, "")
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.NotEmpty(t, mailer.sent[0].Text)
	assert.Contains(t, mailer.sent[0].Text, "Clinic")
}

func TestNotify_UnknownType(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	sender := testSender(store, &stubMailer{})

	_, err := sender.Notify(context.Background(), "broadcast", Recipient{Email: "a@b.c"}, store.event, "")
	assert.Error(t, err)
	assert.Empty(t, store.records)
}

func TestNotify_RecordInsertFailureIsFatal(t *testing.T) {
	store := &stubStore{event: clinicEvent(), insertErr: fmt.Errorf("relation does not exist")}
	sender := testSender(store, &stubMailer{})

	_, err := sender.Notify(context.Background(), model.NotificationReminder, Recipient{FullName: "Ana", Email: "a@b.c"}, store.event, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist notification record")
}

func TestSendConfirmationEmail_LogsAttempt(t *testing.T) {
	store := &stubStore{event: clinicEvent()}
	mailer := &stubMailer{}
	sender := testSender(store, mailer)

	rcpt := Recipient{RegistrationID: 7, FullName: "Ana", Email: "ana@example.com"}

	result, err := sender.SendConfirmationEmail(context.Background(), rcpt, store.event)
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, store.emails, 1)
	assert.Equal(t, "ana@example.com", store.emails[0].Recipient)
	assert.Equal(t, 7, store.emails[0].RegistrationID)
	assert.Equal(t, model.DeliverySent, store.emails[0].Status)
	assert.Equal(t, "msg-ana@example.com", store.emails[0].ProviderMessageID)
}
