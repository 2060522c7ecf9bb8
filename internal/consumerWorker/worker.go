package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"clubhub/internal/dto"
	"clubhub/internal/notify"
	"clubhub/internal/rabbit"
	"clubhub/internal/repo"
)

// Reader consumes scheduled reminder messages off the delayed exchange and
// runs the notification fan-out when they fire.
type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	sender *notify.Sender
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, sender *notify.Sender) *Reader {
	return &Reader{
		RMQ:    rmq,
		repo:   repo,
		sender: sender,
		done:   make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("reminder reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.ReminderMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int("event_id", msg.EventID).
				Str("type", msg.Type).
				Msg("received scheduled notification")

			regs, err := r.repo.GetRegistrationsByEventID(cctx, int64(msg.EventID))
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int("event_id", msg.EventID).
					Msg("failed to resolve recipients for scheduled notification")
				return err
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

			report, err := r.sender.FanOut(cctx, msg.Type, recipients, int64(msg.EventID), msg.Message)
			if err != nil {
				// A vanished event is final; requeueing would loop forever.
				zlog.Logger.Error().
					Err(err).
					Int("event_id", msg.EventID).
					Msg("scheduled fan-out aborted")
				return nil
			}

			zlog.Logger.Info().
				Int("event_id", msg.EventID).
				Int("successful", report.Successful).
				Int("failed", report.Failed).
				Msg("scheduled fan-out finished")
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("reminder reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
