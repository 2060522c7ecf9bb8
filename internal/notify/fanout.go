package notify

import (
	"context"
	"fmt"

	"clubhub/internal/model"
)

// FanOutReport aggregates one bulk send. Partial success is the expected
// shape, not an edge case.
type FanOutReport struct {
	EventID    int                `json:"event_id"`
	Type       string             `json:"type"`
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Details    []RecipientOutcome `json:"details"`
}

type RecipientOutcome struct {
	RegistrationID int    `json:"registration_id,omitempty"`
	Email          string `json:"email"`
	Success        bool   `json:"success"`
	WhatsAppLink   string `json:"whatsapp_link,omitempty"`
	Error          string `json:"error,omitempty"`
}

// FanOut applies Notify across recipients strictly in input order, one at a
// time. Sequential dispatch keeps delivery-log rows ordered per event and
// avoids provider rate-limit bursts. A failing recipient never stops the
// rest; every recipient gets exactly one attempt and one outcome.
func (s *Sender) FanOut(ctx context.Context, typ string, recipients []Recipient, eventID int64, customMessage string) (*FanOutReport, error) {
	switch typ {
	case model.NotificationRegistration, model.NotificationReminder, model.NotificationCustom:
	default:
		return nil, fmt.Errorf("unknown notification type %q", typ)
	}

	// No partial sends against a non-existent event.
	event, err := s.store.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	report := &FanOutReport{
		EventID: event.ID,
		Type:    typ,
		Details: make([]RecipientOutcome, 0, len(recipients)),
	}

	for _, rcpt := range recipients {
		report.Total++

		outcome := RecipientOutcome{
			RegistrationID: rcpt.RegistrationID,
			Email:          rcpt.Email,
		}

		result, err := s.Notify(ctx, typ, rcpt, event, customMessage)
		if err != nil {
			outcome.Error = err.Error()
			report.Failed++
			report.Details = append(report.Details, outcome)
			s.log.Error().Err(err).Str("email", rcpt.Email).Int("event_id", event.ID).
				Msg("notification attempt failed")
			continue
		}

		outcome.Success = result.OK
		outcome.WhatsAppLink = result.WhatsAppLink
		if !result.OK {
			outcome.Error = result.Email.Message
		}

		if result.OK {
			report.Successful++
		} else {
			report.Failed++
		}
		report.Details = append(report.Details, outcome)
	}

	s.log.Info().
		Int("event_id", event.ID).
		Str("type", typ).
		Int("total", report.Total).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Msg("notification fan-out finished")

	return report, nil
}
