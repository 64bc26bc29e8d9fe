// Package timeseries turns sparse bucket aggregates into dense,
// grain-aligned series. All bucket math is UTC.
package timeseries

import (
	"fmt"
	"time"
)

// Grain is the bucket width for time-series aggregation.
type Grain string

const (
	GrainDay   Grain = "day"
	GrainWeek  Grain = "week"
	GrainMonth Grain = "month"
)

// ParseGrain validates an interval query parameter. Empty defaults to day.
func ParseGrain(s string) (Grain, error) {
	switch s {
	case "":
		return GrainDay, nil
	case string(GrainDay), string(GrainWeek), string(GrainMonth):
		return Grain(s), nil
	}
	return "", fmt.Errorf("interval must be day, week or month, got %q", s)
}

// Floor truncates t to the start of its bucket:
// day → midnight UTC, week → Monday 00:00 UTC (ISO week start),
// month → day 1 00:00 UTC.
func (g Grain) Floor(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case GrainWeek:
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Weekday is Sunday-based; shift so Monday is 0.
		back := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -back)
	case GrainMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the bucket after t. Month stepping adds one
// calendar month (28–31 days depending on the month), never a fixed
// day offset.
func (g Grain) Next(t time.Time) time.Time {
	switch g {
	case GrainWeek:
		return t.AddDate(0, 0, 7)
	case GrainMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Label formats a bucket start as its ISO calendar date. This is the
// stable join key between sparse aggregation rows and the dense axis.
func Label(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// BucketRow is one sparse aggregation result: a truncated bucket start
// and the reducer value for that bucket.
type BucketRow struct {
	Bucket time.Time
	Value  float64
}

// Densify walks bucket boundaries from floor(from) to floor(to)
// inclusive and merges sparse rows onto the dense axis by label. Buckets
// with no matching row get empty. Labels come back strictly increasing
// with no gaps or duplicates; series is always the same length.
func Densify(rows []BucketRow, from, to time.Time, g Grain, empty float64) (labels []string, series []float64) {
	byLabel := make(map[string]float64, len(rows))
	for _, r := range rows {
		byLabel[Label(r.Bucket)] = r.Value
	}

	labels = []string{}
	series = []float64{}
	end := g.Floor(to)
	for cur := g.Floor(from); !cur.After(end); cur = g.Next(cur) {
		l := Label(cur)
		labels = append(labels, l)
		if v, ok := byLabel[l]; ok {
			series = append(series, v)
		} else {
			series = append(series, empty)
		}
	}
	return labels, series
}
