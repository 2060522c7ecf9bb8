package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"clubhub/internal/dto"
	"clubhub/internal/model"
	"clubhub/internal/notify"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"

	"github.com/wb-go/wbf/ginext"
)

// Notify triggers a fan-out over the event's registrations. With a positive
// delay the request is queued on the delayed exchange instead and the worker
// dispatches it when it fires.
func (s *service) Notify(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	var req dto.NotifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	switch req.Type {
	case model.NotificationRegistration, model.NotificationReminder, model.NotificationCustom:
	default:
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Unknown notification type")
		return
	}

	if _, err := s.repo.GetEventByID(ctx.Request.Context(), eventID); err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	if req.DelayMinutes > 0 {
		msg := dto.ReminderMessage{
			EventID: int(eventID),
			Type:    req.Type,
			Message: req.Message,
			SendAt:  time.Now().Add(time.Duration(req.DelayMinutes) * time.Minute),
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to marshal reminder message")
			dto.InternalServerError(ctx)
			return
		}
		delay := time.Duration(req.DelayMinutes) * time.Minute
		if err := s.rbt.Publish(ctx.Request.Context(), payload, delay); err != nil {
			s.log.Error().Err(err).Msg("failed to publish reminder message")
			dto.InternalServerError(ctx)
			return
		}

		s.log.Info().
			Int64("event_id", eventID).
			Str("type", req.Type).
			Int("delay_minutes", req.DelayMinutes).
			Msg("notification scheduled")
		dto.SuccessResponse(ctx, msg)
		return
	}

	regs, err := s.repo.GetRegistrationsByEventID(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to resolve recipients")
		dto.InternalServerError(ctx)
		return
	}

	recipients := make([]notify.Recipient, 0, len(regs))
	for _, reg := range regs {
		recipients = append(recipients, notify.Recipient{
			RegistrationID: reg.ID,
			FullName:       reg.FullName,
			GuardianName:   reg.GuardianName,
			Email:          reg.Email,
			Phone:          reg.Phone,
		})
	}

	report, err := s.sender.FanOut(ctx.Request.Context(), req.Type, recipients, eventID, req.Message)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("fan-out failed")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, report)
}

func (s *service) ListNotifications(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	recs, err := s.repo.GetNotificationsByEventID(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list notification records")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, recs)
}

// RepairSchema runs the idempotent schema reconciliation on demand and
// returns its report. Only a dead database connection yields a 500, and the
// response says what failed rather than a generic retry-later message.
func (s *service) RepairSchema(ctx *ginext.Context) {
	report, err := s.checker.Run(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("schema repair aborted")
		dto.InternalServerErrorWithDesc(ctx, "Schema check aborted: "+err.Error())
		return
	}

	dto.SuccessResponse(ctx, report)
}
