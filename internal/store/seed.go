package store

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/apperr"
)

// Seed helpers used by cmd/seed to provision demo data. Team, user and
// project lifecycle is otherwise owned by the external management
// service; the core never mutates these tables at request time.

func (s *Store) CreateTeam(ctx context.Context, id, name string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO teams (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, id, name)
	if err != nil {
		return &apperr.StorageError{Op: "create team", Err: err}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, id, email, name string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id, email, name)
	if err != nil {
		return &apperr.StorageError{Op: "create user", Err: err}
	}
	return nil
}

func (s *Store) AddMember(ctx context.Context, teamID, userID, role string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO members (team_id, user_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, teamID, userID, role)
	if err != nil {
		return &apperr.StorageError{Op: "add member", Err: err}
	}
	return nil
}

func (s *Store) CreateProject(ctx context.Context, id, teamID, name, apiKey string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, team_id, name, api_key) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, id, teamID, name, apiKey)
	if err != nil {
		return &apperr.StorageError{Op: "create project", Err: err}
	}
	return nil
}
