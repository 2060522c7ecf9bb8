package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/model"
	"clubhub/internal/notify"
	"clubhub/internal/rabbit"
	"clubhub/internal/repo"
	"clubhub/internal/schemacheck"
	"clubhub/pkg/validator"
)

type Service interface {
	CreateEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	GetInfo(ctx *ginext.Context)
	GetPublicEvent(ctx *ginext.Context)
	GetAllEvents(ctx *ginext.Context)
	Register(ctx *ginext.Context)
	Confirm(ctx *ginext.Context)

	Notify(ctx *ginext.Context)
	ListNotifications(ctx *ginext.Context)
	RepairSchema(ctx *ginext.Context)

	CreateTeam(ctx *ginext.Context)
	GetAllTeams(ctx *ginext.Context)
	AddMember(ctx *ginext.Context)
	GetMembers(ctx *ginext.Context)
	CreateSponsor(ctx *ginext.Context)
	GetAllSponsors(ctx *ginext.Context)
	PostWallMessage(ctx *ginext.Context)
	GetWallMessages(ctx *ginext.Context)
}

// SchemaChecker reconciles the live schema on demand. Satisfied by
// *schemacheck.Checker.
type SchemaChecker interface {
	Run(ctx context.Context) (*schemacheck.Report, error)
}

type service struct {
	repo     repo.Repository
	log      *zerolog.Logger
	rbt      *rabbit.Client
	sender   *notify.Sender
	renderer *notify.Renderer
	checker  SchemaChecker
}

func NewService(
	repo repo.Repository,
	logger *zerolog.Logger,
	rbt *rabbit.Client,
	sender *notify.Sender,
	renderer *notify.Renderer,
	checker SchemaChecker,
) Service {
	return &service{
		repo:     repo,
		log:      logger,
		rbt:      rbt,
		sender:   sender,
		renderer: renderer,
		checker:  checker,
	}
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create event request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		s.log.Error().Msgf("validation failed: %v", verr)
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	slug := req.PublicSlug
	if req.IsPublic && slug == "" {
		slug = schemacheck.Slugify(req.Title) + "-" + uuid.NewString()[:8]
	}

	event := &model.Event{
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		Location:        req.Location,
		Capacity:        req.Capacity,
		PaymentRequired: req.PaymentRequired,
		Price:           req.Price,
		PaymentLink:     req.PaymentLink,
		PublicSlug:      slug,
		IsPublic:        req.IsPublic,
		CreatedAt:       time.Now(),
	}

	id, err := s.repo.CreateEvent(ctx.Request.Context(), event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}

	event.ID = int(id)
	s.log.Info().Int64("event_id", id).Msg("event created successfully")

	dto.SuccessCreatedResponse(ctx, dto.EventResponse{
		ID:              id,
		Title:           event.Title,
		Description:     event.Description,
		StartTime:       event.StartTime,
		Location:        event.Location,
		Capacity:        event.Capacity,
		PaymentRequired: event.PaymentRequired,
		Price:           event.Price,
		PaymentLink:     event.PaymentLink,
		PublicSlug:      event.PublicSlug,
		IsPublic:        event.IsPublic,
		CreatedAt:       event.CreatedAt,
	})
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	event := &model.Event{
		ID:              int(eventID),
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       req.StartTime,
		Location:        req.Location,
		Capacity:        req.Capacity,
		PaymentRequired: req.PaymentRequired,
		Price:           req.Price,
		PaymentLink:     req.PaymentLink,
		PublicSlug:      req.PublicSlug,
		IsPublic:        req.IsPublic,
	}

	if err := s.repo.UpdateEvent(ctx.Request.Context(), event); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update event")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("event_id", eventID).Msg("event updated")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) GetInfo(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	isAdmin := ctx.Query("admin") == "true"

	event, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	resp, err := s.buildEventInfo(ctx, event, isAdmin)
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetPublicEvent(ctx *ginext.Context) {
	slug := ctx.Param("slug")

	event, err := s.repo.GetEventBySlug(ctx.Request.Context(), slug)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	resp, err := s.buildEventInfo(ctx, event, false)
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetAllEvents(ctx *ginext.Context) {
	isAdmin := ctx.Query("admin") == "true"

	events, err := s.repo.GetAllEvents(ctx.Request.Context())
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.EventInfoResponse, 0, len(events))
	for i := range events {
		item, err := s.buildEventInfo(ctx, &events[i], isAdmin)
		if err != nil {
			s.log.Error().Err(err).Int("event_id", events[i].ID).Msg("failed to build event info")
			continue
		}
		resp = append(resp, *item)
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) buildEventInfo(ctx *ginext.Context, event *model.Event, withRegistrations bool) (*dto.EventInfoResponse, error) {
	count, err := s.repo.CountAttendees(ctx.Request.Context(), int64(event.ID))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count attendees")
		return nil, err
	}

	resp := &dto.EventInfoResponse{
		ID:              int64(event.ID),
		Title:           event.Title,
		Description:     event.Description,
		StartTime:       event.StartTime,
		Location:        event.Location,
		Capacity:        event.Capacity,
		AvailableSeats:  event.Capacity - count,
		PaymentRequired: event.PaymentRequired,
		Price:           event.Price,
		PaymentLink:     event.PaymentLink,
		PublicSlug:      event.PublicSlug,
		IsPublic:        event.IsPublic,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}

	if withRegistrations {
		registrations, err := s.repo.GetRegistrationsByEventID(ctx.Request.Context(), int64(event.ID))
		if err != nil {
			return nil, err
		}
		for _, r := range registrations {
			resp.Registrations = append(resp.Registrations, toRegistrationResponse(&r))
		}
	}

	return resp, nil
}

func toRegistrationResponse(r *model.Registration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:                 int64(r.ID),
		EventID:            int64(r.EventID),
		FullName:           r.FullName,
		GuardianName:       r.GuardianName,
		Email:              r.Email,
		AttendeeCount:      r.AttendeeCount,
		ConfirmationStatus: r.ConfirmationStatus,
		PaymentStatus:      r.PaymentStatus,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func (s *service) Register(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	if req.AttendeeCount == 0 {
		req.AttendeeCount = 1
	}

	registration := &model.Registration{
		EventID:       int(eventID),
		FullName:      req.FullName,
		GuardianName:  req.GuardianName,
		Email:         req.Email,
		Phone:         req.Phone,
		AttendeeCount: req.AttendeeCount,
		PaymentStatus: model.PaymentPending,
	}

	id, err := s.repo.RegisterTx(ctx.Request.Context(), registration)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEventNotFound):
			dto.EventNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventFull):
			dto.EventFullError(ctx)
		case errors.Is(err, repo.ErrDuplicateRegistration):
			dto.RegistrationDuplicateError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to book registration")
			dto.InternalServerError(ctx)
		}
		return
	}
	registration.ID = int(id)

	s.log.Info().Int64("registration_id", id).Msg("registration created successfully")

	event, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load event for confirmation email")
	} else {
		rcpt := notify.Recipient{
			RegistrationID: registration.ID,
			FullName:       registration.FullName,
			GuardianName:   registration.GuardianName,
			Email:          registration.Email,
			Phone:          registration.Phone,
		}
		if _, err := s.sender.SendConfirmationEmail(ctx.Request.Context(), rcpt, event); err != nil {
			s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to log confirmation email")
		}
	}

	dto.SuccessCreatedResponse(ctx, dto.RegistrationResponse{
		ID:                 id,
		EventID:            eventID,
		FullName:           registration.FullName,
		GuardianName:       registration.GuardianName,
		Email:              registration.Email,
		AttendeeCount:      registration.AttendeeCount,
		ConfirmationStatus: registration.ConfirmationStatus,
		PaymentStatus:      registration.PaymentStatus,
		CreatedAt:          time.Now(),
	})
}

// Confirm handles the emailed confirm/decline link. It is a bare GET with
// query parameters and answers with a server-rendered HTML page, not JSON.
func (s *service) Confirm(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Query("event"), 10, 64)
	if err != nil {
		ctx.Data(400, "text/html; charset=utf-8", []byte("<h2>Invalid event.</h2>"))
		return
	}

	email := ctx.Query("email")
	answer := ctx.Query("confirm")
	if email == "" || (answer != "yes" && answer != "no") {
		ctx.Data(400, "text/html; charset=utf-8", []byte("<h2>Invalid confirmation link.</h2>"))
		return
	}

	status := model.ConfirmationConfirmed
	if answer == "no" {
		status = model.ConfirmationDeclined
	}

	reg, err := s.repo.UpdateConfirmationByEmail(ctx.Request.Context(), eventID, email, status)
	if err != nil {
		s.log.Warn().Err(err).Int64("event_id", eventID).Str("email", email).
			Msg("confirmation link hit for unknown registration")
		ctx.Data(404, "text/html; charset=utf-8", []byte("<h2>Registration not found.</h2>"))
		return
	}

	event, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		ctx.Data(404, "text/html; charset=utf-8", []byte("<h2>Event not found.</h2>"))
		return
	}

	s.log.Info().
		Int("registration_id", reg.ID).
		Str("email", reg.Email).
		Str("status", status).
		Msg("registration confirmation updated via link")

	page := s.renderer.ConfirmationPage(reg.DisplayName(), event.Title, status == model.ConfirmationConfirmed)
	ctx.Data(200, "text/html; charset=utf-8", []byte(page))
}
