// Package ingest validates and persists batches of typed events.
package ingest

import (
	"context"
	"fmt"

	"github.com/pulseboard/pulseboard/internal/apperr"
	"github.com/pulseboard/pulseboard/internal/event"
	"github.com/pulseboard/pulseboard/internal/project"
)

// ProjectRegistry resolves an API key to its project, or nil when the
// key is unknown.
type ProjectRegistry interface {
	ProjectByAPIKey(ctx context.Context, apiKey string) (*project.Project, error)
}

// EventWriter performs the bulk idempotent insert and reports how many
// rows actually landed (duplicates skipped).
type EventWriter interface {
	InsertEvents(ctx context.Context, rows []event.Row) (int64, error)
}

// Result is the ingestion response. Inserted < Received means some items
// were idempotency replays, which is not an error.
type Result struct {
	ProjectID string `json:"projectId"`
	Received  int    `json:"received"`
	Inserted  int    `json:"inserted"`
}

// Service is the ingestion pipeline: validate, resolve tenant, write.
type Service struct {
	registry ProjectRegistry
	events   EventWriter
}

func NewService(registry ProjectRegistry, events EventWriter) *Service {
	return &Service{registry: registry, events: events}
}

// Ingest validates the whole batch (all-or-nothing), resolves the API
// key to a project and bulk-inserts the rows with skip-on-duplicate
// semantics. Safe to retry verbatim: identical resubmission converges to
// the same stored state.
//
// An unknown key fails with Unauthorized, never NotFound, so the key
// space stays opaque to tenant enumeration.
func (s *Service) Ingest(ctx context.Context, apiKey string, items []event.Incoming) (*Result, error) {
	validated, err := event.ValidateBatch(items)
	if err != nil {
		return nil, err
	}

	p, err := s.registry.ProjectByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("invalid API key: %w", apperr.ErrUnauthorized)
	}

	rows := make([]event.Row, len(validated))
	for i, v := range validated {
		rows[i] = event.Row{
			ProjectID:  p.ID,
			Type:       v.Type,
			Value:      v.Value,
			UserID:     v.UserID,
			EventID:    v.EventID,
			OccurredAt: v.OccurredAt,
		}
	}

	inserted, err := s.events.InsertEvents(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &Result{
		ProjectID: p.ID,
		Received:  len(items),
		Inserted:  int(inserted),
	}, nil
}
