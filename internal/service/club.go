package service

import (
	"errors"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/model"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"
)

func (s *service) CreateTeam(ctx *ginext.Context) {
	var req dto.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	team := &model.Team{Name: req.Name, Category: req.Category}
	id, err := s.repo.CreateTeam(ctx.Request.Context(), team)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create team")
		dto.InternalServerError(ctx)
		return
	}
	team.ID = int(id)

	s.log.Info().Int64("team_id", id).Msg("team created")
	dto.SuccessCreatedResponse(ctx, team)
}

func (s *service) GetAllTeams(ctx *ginext.Context) {
	teams, err := s.repo.GetAllTeams(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list teams")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, teams)
}

func (s *service) AddMember(ctx *ginext.Context) {
	teamID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid team ID")
		return
	}

	var req dto.CreateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	if _, err := s.repo.GetTeamByID(ctx.Request.Context(), teamID); err != nil {
		dto.TeamNotFoundError(ctx)
		return
	}

	role := req.Role
	if role == "" {
		role = "player"
	}

	member := &model.Member{
		TeamID:   int(teamID),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     role,
	}
	id, err := s.repo.CreateMember(ctx.Request.Context(), member)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create member")
		dto.InternalServerError(ctx)
		return
	}
	member.ID = int(id)

	dto.SuccessCreatedResponse(ctx, member)
}

func (s *service) GetMembers(ctx *ginext.Context) {
	teamID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid team ID")
		return
	}

	if _, err := s.repo.GetTeamByID(ctx.Request.Context(), teamID); err != nil {
		if errors.Is(err, repo.ErrTeamNotFound) {
			dto.TeamNotFoundError(ctx)
			return
		}
		dto.InternalServerError(ctx)
		return
	}

	members, err := s.repo.GetMembersByTeamID(ctx.Request.Context(), teamID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list members")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, members)
}

func (s *service) CreateSponsor(ctx *ginext.Context) {
	var req dto.CreateSponsorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	sponsor := &model.Sponsor{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Tier:         req.Tier,
		Amount:       req.Amount,
	}
	id, err := s.repo.CreateSponsor(ctx.Request.Context(), sponsor)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create sponsor")
		dto.InternalServerError(ctx)
		return
	}
	sponsor.ID = int(id)

	dto.SuccessCreatedResponse(ctx, sponsor)
}

func (s *service) GetAllSponsors(ctx *ginext.Context) {
	sponsors, err := s.repo.GetAllSponsors(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list sponsors")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, sponsors)
}

func (s *service) PostWallMessage(ctx *ginext.Context) {
	teamID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid team ID")
		return
	}

	var req dto.CreateWallMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	if _, err := s.repo.GetTeamByID(ctx.Request.Context(), teamID); err != nil {
		dto.TeamNotFoundError(ctx)
		return
	}

	msg := &model.WallMessage{
		TeamID: int(teamID),
		Author: req.Author,
		Body:   req.Body,
	}
	id, err := s.repo.CreateWallMessage(ctx.Request.Context(), msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to post wall message")
		dto.InternalServerError(ctx)
		return
	}
	msg.ID = int(id)

	dto.SuccessCreatedResponse(ctx, msg)
}

func (s *service) GetWallMessages(ctx *ginext.Context) {
	teamID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid team ID")
		return
	}

	if _, err := s.repo.GetTeamByID(ctx.Request.Context(), teamID); err != nil {
		dto.TeamNotFoundError(ctx)
		return
	}

	msgs, err := s.repo.GetWallMessagesByTeamID(ctx.Request.Context(), teamID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list wall messages")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, msgs)
}
