package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// Point is one period of an aggregated series.
type Point struct {
	Period time.Time `json:"period" yaml:"period"`
	Mean   float64   `json:"mean" yaml:"mean"`
	Count  int       `json:"count" yaml:"count"`
}

// PeriodStart truncates ts to the start of its calendar day, Monday-start week
// or calendar month.
func PeriodStart(ts time.Time, g Granularity) time.Time {
	y, m, d := ts.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
	switch g {
	case Weekly:
		back := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -back)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, ts.Location())
	default:
		return day
	}
}

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) {
	a.sum += v
	a.n++
}

func (a *meanAcc) mean() float64 { return a.sum / float64(a.n) }

// ResampleMean buckets records by period and averages column in each bucket.
// Periods without a value are omitted, and the result is ordered by period. An
// empty table yields an empty series.
func ResampleMean(t *dataset.Table, g Granularity, column string) ([]Point, error) {
	if t.Len() == 0 {
		return []Point{}, nil
	}
	col, err := t.Require(column, "trend")
	if err != nil {
		return nil, err
	}
	type bucket struct {
		period time.Time
		meanAcc
	}
	buckets := map[int64]*bucket{}
	for _, r := range t.Records {
		v := r.Nums[col]
		if math.IsNaN(v) {
			continue
		}
		period := PeriodStart(r.Time, g)
		b := buckets[period.Unix()]
		if b == nil {
			b = &bucket{period: period}
			buckets[period.Unix()] = b
		}
		b.add(v)
	}
	out := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, Point{Period: b.period, Mean: b.mean(), Count: b.n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}
