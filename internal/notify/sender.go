package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clubhub/internal/model"
)

// Store is the slice of persistence the notification path needs. Tables are
// ensured by the schema check at startup; inserts fail loudly if one is gone.
type Store interface {
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	InsertNotificationRecord(ctx context.Context, rec *model.NotificationRecord) error
	InsertEmailLog(ctx context.Context, entry *model.EmailLog) error
}

// Recipient is one target of a notification. Email is required; phone enables
// the WhatsApp channel.
type Recipient struct {
	RegistrationID int
	FullName       string
	GuardianName   string
	Email          string
	Phone          string
}

func (r Recipient) DisplayName() string {
	if r.GuardianName != "" {
		return r.GuardianName
	}
	return r.FullName
}

// Result reports one per-recipient attempt. OK is the logical OR of "email
// succeeded" and "a WhatsApp link was produced".
type Result struct {
	Email        SendResult `json:"email"`
	WhatsAppLink string     `json:"whatsapp_link,omitempty"`
	RecordID     uuid.UUID  `json:"record_id"`
	OK           bool       `json:"ok"`
}

type Sender struct {
	store    Store
	mailer   Mailer
	links    *LinkBuilder
	renderer *Renderer
	log      *zerolog.Logger
}

func NewSender(store Store, mailer Mailer, links *LinkBuilder, renderer *Renderer, log *zerolog.Logger) *Sender {
	return &Sender{
		store:    store,
		mailer:   mailer,
		links:    links,
		renderer: renderer,
		log:      log,
	}
}

// Notify renders content for one recipient, attempts email delivery, builds
// the WhatsApp link when a phone is on file, and appends a delivery record.
// Transport failures are reported in the result, not returned; the only error
// is an unknown type or a failed record insert.
func (s *Sender) Notify(ctx context.Context, typ string, rcpt Recipient, event *model.Event, customMessage string) (Result, error) {
	content, err := s.renderer.Render(typ, rcpt.DisplayName(), rcpt.Email, event, customMessage)
	if err != nil {
		return Result{}, err
	}

	emailResult := s.mailer.Send(rcpt.Email, content.Subject, textToHTML(content.Body), content.Body, event.ID)

	var waLink string
	if rcpt.Phone != "" {
		waLink, err = s.links.Build(rcpt.Phone, content.Body)
		if err != nil {
			s.log.Warn().Err(err).Str("phone", rcpt.Phone).Msg("failed to build whatsapp link")
			waLink = ""
		}
	}

	status := model.DeliveryFailed
	if emailResult.Success {
		status = model.DeliverySent
	}

	record := &model.NotificationRecord{
		ID:      uuid.New(),
		Type:    typ,
		Phone:   rcpt.Phone,
		Email:   rcpt.Email,
		Message: content.Body,
		EventID: event.ID,
		Status:  status,
	}
	if err := s.store.InsertNotificationRecord(ctx, record); err != nil {
		return Result{}, fmt.Errorf("persist notification record: %w", err)
	}

	return Result{
		Email:        emailResult,
		WhatsAppLink: waLink,
		RecordID:     record.ID,
		OK:           emailResult.Success || waLink != "",
	}, nil
}

// SendConfirmationEmail covers the single-recipient path outside bulk
// fan-outs and records the attempt in the email log.
func (s *Sender) SendConfirmationEmail(ctx context.Context, rcpt Recipient, event *model.Event) (SendResult, error) {
	content, err := s.renderer.Render(model.NotificationRegistration, rcpt.DisplayName(), rcpt.Email, event, "")
	if err != nil {
		return SendResult{}, err
	}

	result := s.mailer.Send(rcpt.Email, content.Subject, textToHTML(content.Body), content.Body, event.ID)

	status := model.DeliveryFailed
	if result.Success {
		status = model.DeliverySent
	}
	entry := &model.EmailLog{
		ID:                uuid.New(),
		Recipient:         rcpt.Email,
		Subject:           content.Subject,
		EventID:           event.ID,
		RegistrationID:    rcpt.RegistrationID,
		ProviderMessageID: result.ProviderMessageID,
		Status:            status,
	}
	if err := s.store.InsertEmailLog(ctx, entry); err != nil {
		return result, fmt.Errorf("persist email log: %w", err)
	}

	return result, nil
}

func textToHTML(body string) string {
	return "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n", "<br>") + "</p>"
}
