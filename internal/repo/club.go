package repo

import (
	"context"
	"fmt"

	"clubhub/internal/model"
)

func (r *repository) CreateTeam(ctx context.Context, t *model.Team) (int64, error) {
	query := `
		INSERT INTO teams (name, category)
		VALUES ($1, NULLIF($2, ''))
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, t.Name, t.Category).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert team: %w", err)
	}
	return id, nil
}

func (r *repository) GetTeamByID(ctx context.Context, id int64) (*model.Team, error) {
	query := `
		SELECT id, name, COALESCE(category, ''), created_at, updated_at
		FROM teams WHERE id = $1
	`

	var t model.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Category, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, ErrTeamNotFound
	}
	return &t, nil
}

func (r *repository) GetAllTeams(ctx context.Context) ([]model.Team, error) {
	query := `
		SELECT id, name, COALESCE(category, ''), created_at, updated_at
		FROM teams ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

func (r *repository) CreateMember(ctx context.Context, m *model.Member) (int64, error) {
	query := `
		INSERT INTO members (team_id, full_name, email, phone, role)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		m.TeamID, m.FullName, m.Email, m.Phone, m.Role,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert member: %w", err)
	}
	return id, nil
}

func (r *repository) GetMembersByTeamID(ctx context.Context, teamID int64) ([]model.Member, error) {
	query := `
		SELECT id, team_id, full_name, COALESCE(email, ''), COALESCE(phone, ''), role,
		       created_at, updated_at
		FROM members
		WHERE team_id = $1
		ORDER BY full_name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.FullName, &m.Email, &m.Phone, &m.Role,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *repository) CreateSponsor(ctx context.Context, s *model.Sponsor) (int64, error) {
	query := `
		INSERT INTO sponsors (name, contact_email, tier, amount)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		s.Name, s.ContactEmail, s.Tier, s.Amount,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sponsor: %w", err)
	}
	return id, nil
}

func (r *repository) GetAllSponsors(ctx context.Context) ([]model.Sponsor, error) {
	query := `
		SELECT id, name, COALESCE(contact_email, ''), COALESCE(tier, ''), COALESCE(amount, 0),
		       created_at, updated_at
		FROM sponsors ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsors: %w", err)
	}
	defer rows.Close()

	var sponsors []model.Sponsor
	for rows.Next() {
		var s model.Sponsor
		if err := rows.Scan(
			&s.ID, &s.Name, &s.ContactEmail, &s.Tier, &s.Amount,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", err)
		}
		sponsors = append(sponsors, s)
	}

	return sponsors, rows.Err()
}

func (r *repository) CreateWallMessage(ctx context.Context, msg *model.WallMessage) (int64, error) {
	query := `
		INSERT INTO team_wall_messages (team_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, msg.TeamID, msg.Author, msg.Body).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert wall message: %w", err)
	}
	return id, nil
}

func (r *repository) GetWallMessagesByTeamID(ctx context.Context, teamID int64) ([]model.WallMessage, error) {
	query := `
		SELECT id, team_id, author, body, created_at
		FROM team_wall_messages
		WHERE team_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wall messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.WallMessage
	for rows.Next() {
		var m model.WallMessage
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Author, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wall message: %w", err)
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}
