// Package analytics computes the chart-ready metric series (MRR, active
// users, churn) from raw events. Every call recomputes from the event
// log; there is no caching stage.
package analytics

import (
	"context"
	"math"
	"time"

	"github.com/pulseboard/pulseboard/internal/event"
	"github.com/pulseboard/pulseboard/internal/timeseries"
)

// Reducer selects the per-bucket aggregation applied by the store.
type Reducer int

const (
	// ReduceSumValue sums the value column.
	ReduceSumValue Reducer = iota
	// ReduceCountRows counts matching rows.
	ReduceCountRows
	// ReduceCountDistinctUsers counts distinct user IDs.
	ReduceCountDistinctUsers
)

// Aggregator runs one grouped aggregation over the raw event subset for a
// project, event type and inclusive [from, to] range. The result is
// sparse: buckets with no matching rows are absent.
type Aggregator interface {
	AggregateEvents(ctx context.Context, projectID string, typ event.Type, from, to time.Time, grain timeseries.Grain, reducer Reducer) ([]timeseries.BucketRow, error)
}

// AccessGate authorizes a caller to read a project's analytics.
type AccessGate interface {
	EnsureAccess(ctx context.Context, projectID, userID string) error
}

// Query carries the optional range parameters of an analytics request.
// Nil From/To fall back to the default range.
type Query struct {
	From     *time.Time
	To       *time.Time
	Interval timeseries.Grain
}

// Series is the dense response shared by all analytics endpoints.
// Labels and Series are always the same length and cover the full
// resolved range with no gaps.
type Series struct {
	Labels []string  `json:"labels"`
	Series []float64 `json:"series"`
}

// Service answers the three analytics queries. It is stateless; each
// call is a pure function of its inputs and the current event log.
type Service struct {
	gate AccessGate
	agg  Aggregator
	now  func() time.Time
}

func NewService(gate AccessGate, agg Aggregator) *Service {
	return &Service{gate: gate, agg: agg, now: time.Now}
}

const defaultRangeDays = 30

// resolveRange applies the default-range policy once, before any
// aggregation: to = now, from = now - 30 days, interval = day. The same
// policy backs all three queries so their axes line up.
func (s *Service) resolveRange(q Query) (from, to time.Time, grain timeseries.Grain) {
	to = s.now().UTC()
	if q.To != nil {
		to = q.To.UTC()
	}
	from = to.AddDate(0, 0, -defaultRangeDays)
	if q.From != nil {
		from = q.From.UTC()
	}
	grain = q.Interval
	if grain == "" {
		grain = timeseries.GrainDay
	}
	return from, to, grain
}

// MRR sums REVENUE event values per bucket.
func (s *Service) MRR(ctx context.Context, projectID, userID string, q Query) (*Series, error) {
	if err := s.gate.EnsureAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	from, to, grain := s.resolveRange(q)

	rows, err := s.agg.AggregateEvents(ctx, projectID, event.TypeRevenue, from, to, grain, ReduceSumValue)
	if err != nil {
		return nil, err
	}
	labels, series := timeseries.Densify(rows, from, to, grain, 0)
	return &Series{Labels: labels, Series: series}, nil
}

// ActiveUsers counts distinct user IDs of ACTIVE events per bucket.
func (s *Service) ActiveUsers(ctx context.Context, projectID, userID string, q Query) (*Series, error) {
	if err := s.gate.EnsureAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	from, to, grain := s.resolveRange(q)

	rows, err := s.agg.AggregateEvents(ctx, projectID, event.TypeActive, from, to, grain, ReduceCountDistinctUsers)
	if err != nil {
		return nil, err
	}
	labels, series := timeseries.Densify(rows, from, to, grain, 0)
	return &Series{Labels: labels, Series: series}, nil
}

// Churn derives the cancellation percentage per bucket from two count
// aggregations densified over the same axis: cancels / starts * 100,
// rounded to 2 decimals. A bucket with zero starts yields 0 (no churn
// signal), never a division error.
func (s *Service) Churn(ctx context.Context, projectID, userID string, q Query) (*Series, error) {
	if err := s.gate.EnsureAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}
	from, to, grain := s.resolveRange(q)

	cancelRows, err := s.agg.AggregateEvents(ctx, projectID, event.TypeSubscriptionCancel, from, to, grain, ReduceCountRows)
	if err != nil {
		return nil, err
	}
	startRows, err := s.agg.AggregateEvents(ctx, projectID, event.TypeSubscriptionStart, from, to, grain, ReduceCountRows)
	if err != nil {
		return nil, err
	}

	labels, cancels := timeseries.Densify(cancelRows, from, to, grain, 0)
	_, starts := timeseries.Densify(startRows, from, to, grain, 0)

	series := make([]float64, len(labels))
	for i := range labels {
		if starts[i] == 0 {
			continue
		}
		series[i] = round2(cancels[i] / starts[i] * 100)
	}
	return &Series{Labels: labels, Series: series}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
