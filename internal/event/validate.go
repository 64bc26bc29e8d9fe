package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/apperr"
)

// Batch size limits for a single ingest call.
const (
	MinBatchSize = 1
	MaxBatchSize = 500
)

// occurredAt accepts a full RFC3339 timestamp or a bare calendar date.
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

func parseOccurredAt(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ValidateBatch checks the whole batch against the tagged-variant schema
// before anything is written. It is all-or-nothing: any failing item
// rejects the entire batch with an itemized issue list, keyed by
// "<index>.<field>" paths.
func ValidateBatch(items []Incoming) ([]Validated, error) {
	if len(items) < MinBatchSize || len(items) > MaxBatchSize {
		return nil, &apperr.ValidationError{
			Message: "Validation failed",
			Issues: []apperr.Issue{{
				Path:    "",
				Message: fmt.Sprintf("batch must contain between %d and %d events", MinBatchSize, MaxBatchSize),
			}},
		}
	}

	out := make([]Validated, 0, len(items))
	var issues []apperr.Issue
	add := func(i int, field, msg string) {
		issues = append(issues, apperr.Issue{Path: fmt.Sprintf("%d.%s", i, field), Message: msg})
	}

	for i, it := range items {
		typ := Type(it.Type)
		if !typ.Known() {
			add(i, "type", "invalid event type")
			continue
		}

		v := Validated{Type: typ, Value: it.Value, UserID: it.UserID, EventID: it.EventID}

		if it.OccurredAt == "" {
			add(i, "occurredAt", "occurredAt is required")
		} else if t, err := parseOccurredAt(it.OccurredAt); err != nil {
			add(i, "occurredAt", "occurredAt must be an ISO date or RFC3339 timestamp")
		} else {
			v.OccurredAt = t
		}

		switch typ {
		case TypeRevenue:
			// value carries the revenue amount and must be positive.
			if it.Value == nil {
				add(i, "value", "value is required for REVENUE events")
			} else if *it.Value <= 0 {
				add(i, "value", "value must be greater than 0")
			}
			if it.UserID != nil && strings.TrimSpace(*it.UserID) == "" {
				add(i, "userId", "userId must not be empty")
			}
		default:
			// All non-revenue variants identify a subject user.
			if it.UserID == nil || strings.TrimSpace(*it.UserID) == "" {
				add(i, "userId", "userId is required")
			}
		}

		if it.EventID != nil {
			if _, err := uuid.Parse(*it.EventID); err != nil {
				add(i, "eventId", "eventId must be a valid UUID")
			}
		}

		out = append(out, v)
	}

	if len(issues) > 0 {
		return nil, &apperr.ValidationError{Message: "Validation failed", Issues: issues}
	}
	return out, nil
}
