package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"clubhub/internal/model"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventFull             = errors.New("event is full")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrTeamNotFound          = errors.New("team not found")
)

const uniqueViolation = "23505"

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]model.Event, error)

	RegisterTx(ctx context.Context, reg *model.Registration) (int64, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetRegistrationsByEventID(ctx context.Context, eventID int64) ([]model.Registration, error)
	CountAttendees(ctx context.Context, eventID int64) (int, error)
	UpdateConfirmationByEmail(ctx context.Context, eventID int64, email, status string) (*model.Registration, error)

	InsertNotificationRecord(ctx context.Context, rec *model.NotificationRecord) error
	GetNotificationsByEventID(ctx context.Context, eventID int64) ([]model.NotificationRecord, error)
	InsertEmailLog(ctx context.Context, entry *model.EmailLog) error

	CreateTeam(ctx context.Context, t *model.Team) (int64, error)
	GetTeamByID(ctx context.Context, id int64) (*model.Team, error)
	GetAllTeams(ctx context.Context) ([]model.Team, error)
	CreateMember(ctx context.Context, m *model.Member) (int64, error)
	GetMembersByTeamID(ctx context.Context, teamID int64) ([]model.Member, error)
	CreateSponsor(ctx context.Context, s *model.Sponsor) (int64, error)
	GetAllSponsors(ctx context.Context) ([]model.Sponsor, error)
	CreateWallMessage(ctx context.Context, msg *model.WallMessage) (int64, error)
	GetWallMessagesByTeamID(ctx context.Context, teamID int64) ([]model.WallMessage, error)

	DB() *dbpg.DB
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

// DB exposes the underlying pool for the schema reconciliation routine,
// which works against catalog metadata rather than application tables.
func (r *repository) DB() *dbpg.DB {
	return r.db
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (title, description, start_time, location, capacity,
		                    payment_required, price, payment_link, public_slug, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		RETURNING id
	`

	row := r.db.Master.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartTime, e.Location, e.Capacity,
		e.PaymentRequired, e.Price, e.PaymentLink, e.PublicSlug, e.IsPublic,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, fmt.Errorf("public slug %q already in use: %w", e.PublicSlug, err)
		}
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateEvent(ctx context.Context, e *model.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_time = $3, location = $4, capacity = $5,
		    payment_required = $6, price = $7, payment_link = $8,
		    public_slug = COALESCE(NULLIF($9, ''), public_slug), is_public = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING id
	`

	var id int64
	err := r.db.Master.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartTime, e.Location, e.Capacity,
		e.PaymentRequired, e.Price, e.PaymentLink, e.PublicSlug, e.IsPublic, e.ID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("public slug %q already in use: %w", e.PublicSlug, err)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

const eventColumns = `
	id, title, COALESCE(description, ''), start_time, COALESCE(location, ''),
	capacity, payment_required, COALESCE(price, 0), COALESCE(payment_link, ''),
	COALESCE(public_slug, ''), is_public, created_at, updated_at
`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartTime, &e.Location,
		&e.Capacity, &e.PaymentRequired, &e.Price, &e.PaymentLink,
		&e.PublicSlug, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (r *repository) GetEventBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE public_slug = $1 AND is_public = TRUE`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (r *repository) GetAllEvents(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

// RegisterTx inserts a registration while holding the event row. The
// (event_id, email) UNIQUE index is the sole duplicate check; a 23505 from
// the insert maps to ErrDuplicateRegistration.
func (r *repository) RegisterTx(ctx context.Context, reg *model.Registration) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var capacity int
	err = tx.QueryRowContext(ctx, `
		SELECT capacity
		FROM events
		WHERE id = $1
		FOR UPDATE
	`, reg.EventID).Scan(&capacity)
	if err != nil {
		_ = tx.Rollback()
		return 0, ErrEventNotFound
	}

	var taken int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(attendee_count), 0)
		FROM registrations
		WHERE event_id = $1 AND confirmation_status != 'declined'
	`, reg.EventID).Scan(&taken)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to count attendees: %w", err)
	}

	if capacity > 0 && taken+reg.AttendeeCount > capacity {
		_ = tx.Rollback()
		return 0, ErrEventFull
	}

	var id int64
	reg.ConfirmationStatus = model.ConfirmationPending
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (event_id, full_name, guardian_name, email, phone,
		                           attendee_count, confirmation_status, payment_status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, NOW())
		RETURNING id
	`, reg.EventID, reg.FullName, reg.GuardianName, reg.Email, reg.Phone,
		reg.AttendeeCount, reg.ConfirmationStatus, reg.PaymentStatus).Scan(&id)
	if err != nil {
		_ = tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, ErrDuplicateRegistration
		}
		return 0, fmt.Errorf("failed to create registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

const registrationColumns = `
	id, event_id, full_name, COALESCE(guardian_name, ''), email, COALESCE(phone, ''),
	attendee_count, confirmation_status, payment_status, COALESCE(payment_reference, ''),
	created_at, updated_at
`

func scanRegistration(row interface{ Scan(...any) error }) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.FullName, &reg.GuardianName, &reg.Email, &reg.Phone,
		&reg.AttendeeCount, &reg.ConfirmationStatus, &reg.PaymentStatus, &reg.PaymentReference,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

func (r *repository) GetRegistrationsByEventID(ctx context.Context, eventID int64) ([]model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND confirmation_status != 'declined'
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}

	return regs, rows.Err()
}

func (r *repository) CountAttendees(ctx context.Context, eventID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(attendee_count), 0)
		FROM registrations
		WHERE event_id = $1 AND confirmation_status != 'declined'
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendees: %w", err)
	}

	return count, nil
}

// UpdateConfirmationByEmail flips the confirmation state for the registration
// matching (eventID, email). Used by the emailed confirm/decline link.
func (r *repository) UpdateConfirmationByEmail(ctx context.Context, eventID int64, email, status string) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET confirmation_status = $1, updated_at = NOW()
		WHERE event_id = $2 AND email = $3
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, status, eventID, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update confirmation status: %w", err)
	}
	return reg, nil
}
