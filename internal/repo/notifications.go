package repo

import (
	"context"
	"fmt"

	"clubhub/internal/model"
)

// InsertNotificationRecord appends one delivery record. The table is ensured
// at startup by the schema check; a missing relation here is a loud error,
// never an in-place create-and-retry.
func (r *repository) InsertNotificationRecord(ctx context.Context, rec *model.NotificationRecord) error {
	query := `
		INSERT INTO notification_records (id, type, phone, email, message, event_id, status)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Type, rec.Phone, rec.Email, rec.Message, rec.EventID, rec.Status,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification record: %w", err)
	}
	return nil
}

func (r *repository) GetNotificationsByEventID(ctx context.Context, eventID int64) ([]model.NotificationRecord, error) {
	query := `
		SELECT id, type, COALESCE(phone, ''), email, message, event_id, status, created_at
		FROM notification_records
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification records: %w", err)
	}
	defer rows.Close()

	var recs []model.NotificationRecord
	for rows.Next() {
		var rec model.NotificationRecord
		if err := rows.Scan(
			&rec.ID, &rec.Type, &rec.Phone, &rec.Email, &rec.Message,
			&rec.EventID, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification record: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func (r *repository) InsertEmailLog(ctx context.Context, entry *model.EmailLog) error {
	query := `
		INSERT INTO email_logs (id, recipient, subject, event_id, registration_id, provider_message_id, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''), $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.Recipient, entry.Subject, entry.EventID,
		entry.RegistrationID, entry.ProviderMessageID, entry.Status,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert email log: %w", err)
	}
	return nil
}
