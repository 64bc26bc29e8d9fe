// Package store is the Postgres persistence layer: the append-only event
// relation plus the project/membership lookups read by the core.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulseboard/pulseboard/internal/analytics"
	"github.com/pulseboard/pulseboard/internal/apperr"
	"github.com/pulseboard/pulseboard/internal/event"
	"github.com/pulseboard/pulseboard/internal/project"
	"github.com/pulseboard/pulseboard/internal/timeseries"
)

// Store wraps the shared connection pool. The pool is passed in
// explicitly; nothing here holds global state.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// InsertEvents bulk-inserts a batch in a single statement. Duplicate
// detection rides on the partial unique index on (project_id, event_id):
// conflicting rows are skipped, not errored, which makes retries and
// at-least-once delivery safe. Returns the number of rows that actually
// landed.
func (s *Store) InsertEvents(ctx context.Context, rows []event.Row) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	projectIDs := make([]string, len(rows))
	types := make([]string, len(rows))
	values := make([]*float64, len(rows))
	userIDs := make([]*string, len(rows))
	eventIDs := make([]*string, len(rows))
	occurred := make([]time.Time, len(rows))
	for i, r := range rows {
		projectIDs[i] = r.ProjectID
		types[i] = string(r.Type)
		values[i] = r.Value
		userIDs[i] = r.UserID
		eventIDs[i] = r.EventID
		occurred[i] = r.OccurredAt
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO events (project_id, type, value, user_id, event_id, occurred_at)
		SELECT p, t::event_type, v, u, e, o
		FROM unnest(
			$1::text[], $2::text[], $3::float8[],
			$4::text[], $5::text[], $6::timestamptz[]
		) AS batch(p, t, v, u, e, o)
		ON CONFLICT (project_id, event_id) WHERE event_id IS NOT NULL DO NOTHING
	`, projectIDs, types, values, userIDs, eventIDs, occurred)
	if err != nil {
		return 0, &apperr.StorageError{Op: "insert events", Err: err}
	}
	return tag.RowsAffected(), nil
}

// reducerSQL whitelists the aggregate expression per reducer; the grain
// and type go through bind parameters.
func reducerSQL(r analytics.Reducer) (string, error) {
	switch r {
	case analytics.ReduceSumValue:
		return "COALESCE(SUM(value), 0)", nil
	case analytics.ReduceCountRows:
		return "COUNT(*)::float8", nil
	case analytics.ReduceCountDistinctUsers:
		return "COUNT(DISTINCT user_id)::float8", nil
	}
	return "", fmt.Errorf("unknown reducer %d", r)
}

// AggregateEvents groups matching events by occurred_at truncated to the
// grain and applies the reducer per group. occurred_at is shifted to UTC
// before truncation so bucket boundaries never depend on the server
// timezone; date_trunc('week') in Postgres is ISO-Monday, matching the
// gap filler. The range is inclusive on both ends. Only buckets with at
// least one matching row come back.
func (s *Store) AggregateEvents(
	ctx context.Context,
	projectID string,
	typ event.Type,
	from, to time.Time,
	grain timeseries.Grain,
	reducer analytics.Reducer,
) ([]timeseries.BucketRow, error) {
	agg, err := reducerSQL(reducer)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT date_trunc($1, occurred_at AT TIME ZONE 'UTC') AS bucket,
		       %s AS value
		FROM events
		WHERE project_id = $2
		  AND type = $3::event_type
		  AND occurred_at BETWEEN $4 AND $5
		GROUP BY bucket
		ORDER BY bucket ASC
	`, agg)

	rs, err := s.pool.Query(ctx, q, string(grain), projectID, string(typ), from, to)
	if err != nil {
		return nil, &apperr.StorageError{Op: "aggregate events", Err: err}
	}
	defer rs.Close()

	var rows []timeseries.BucketRow
	for rs.Next() {
		var r timeseries.BucketRow
		if err := rs.Scan(&r.Bucket, &r.Value); err != nil {
			return nil, &apperr.StorageError{Op: "aggregate events", Err: err}
		}
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		return nil, &apperr.StorageError{Op: "aggregate events", Err: err}
	}
	return rows, nil
}

// ProjectByAPIKey resolves an API key to its project, or nil when the
// key is unknown. Database failures are the only error case.
func (s *Store) ProjectByAPIKey(ctx context.Context, apiKey string) (*project.Project, error) {
	return s.scanProject(ctx, `
		SELECT id, team_id, name, api_key, created_at
		FROM projects WHERE api_key = $1
	`, apiKey)
}

// ProjectByID resolves a project by ID, or nil when unknown.
func (s *Store) ProjectByID(ctx context.Context, id string) (*project.Project, error) {
	return s.scanProject(ctx, `
		SELECT id, team_id, name, api_key, created_at
		FROM projects WHERE id = $1
	`, id)
}

func (s *Store) scanProject(ctx context.Context, q string, arg any) (*project.Project, error) {
	var p project.Project
	err := s.pool.QueryRow(ctx, q, arg).Scan(&p.ID, &p.TeamID, &p.Name, &p.APIKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &apperr.StorageError{Op: "lookup project", Err: err}
	}
	return &p, nil
}

// IsTeamMember reports whether the user belongs to the team.
func (s *Store) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, `
		SELECT 1 FROM members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, &apperr.StorageError{Op: "lookup membership", Err: err}
	}
	return true, nil
}
