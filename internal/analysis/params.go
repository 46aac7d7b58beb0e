package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

const dateTimeLayout = dataset.DatetimeLayout

// Granularity is the bucket size of a resampled series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ParseGranularity accepts daily/weekly/monthly (and D/W/M).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d", "":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	default:
		return "", fmt.Errorf("unsupported granularity: %s (use daily|weekly|monthly)", s)
	}
}

// DateRange is an inclusive [Start, End] interval. A zero time means the endpoint
// was not supplied.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate reports an InvalidRangeError for a missing endpoint or Start after End.
func (r DateRange) Validate() error {
	switch {
	case r.Start.IsZero() && r.End.IsZero():
		return &InvalidRangeError{Reason: "start and end dates are required"}
	case r.Start.IsZero():
		return &InvalidRangeError{End: r.End.Format(dateTimeLayout), Reason: "start date is required"}
	case r.End.IsZero():
		return &InvalidRangeError{Start: r.Start.Format(dateTimeLayout), Reason: "end date is required"}
	case r.Start.After(r.End):
		return &InvalidRangeError{
			Start:  r.Start.Format(dateTimeLayout),
			End:    r.End.Format(dateTimeLayout),
			Reason: "start must not be after end",
		}
	}
	return nil
}

// Contains reports whether ts lies in the inclusive range.
func (r DateRange) Contains(ts time.Time) bool {
	return !ts.Before(r.Start) && !ts.After(r.End)
}

var rangeLayouts = []string{
	"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05", time.RFC3339,
}

// ParseDateRange parses user-supplied bounds. A date-only end is widened to the
// last instant of that day. Empty strings leave the endpoint unset; the result is
// validated.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if r.Start, err = parseBound(start, false); err != nil {
		return r, &InvalidRangeError{Start: start, End: end, Reason: err.Error()}
	}
	if r.End, err = parseBound(end, true); err != nil {
		return r, &InvalidRangeError{Start: start, End: end, Reason: err.Error()}
	}
	return r, r.Validate()
}

func parseBound(s string, isEnd bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		if isEnd {
			return d.Add(24*time.Hour - time.Nanosecond), nil
		}
		return d, nil
	}
	for _, l := range rangeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return dataset.WallClock(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}

// MonthLabel selects how monthly groups are keyed.
type MonthLabel string

const (
	// YearMonth keys groups as 2014-03.
	YearMonth MonthLabel = "year-month"
	// MonthOfYear keys groups as 03, pooling the same month across years.
	MonthOfYear MonthLabel = "month-of-year"
)

// Params are the user-chosen inputs of one render cycle.
type Params struct {
	Stations    []string
	Range       DateRange
	Granularity Granularity
	// ValueColumn is the column resampled and grouped; defaults to PM2.5.
	ValueColumn string
	SearchText  string
	SearchLimit int
	XColumn     string
	YColumn     string
	// CorrColumns defaults to DefaultCorrelationColumns.
	CorrColumns   []string
	HistogramBins int
	MonthLabel    MonthLabel
}

// DefaultCorrelationColumns is the fixed heatmap column set.
var DefaultCorrelationColumns = []string{dataset.ColPM25, dataset.ColTemp, dataset.ColDewPoint, dataset.ColWindSpd}

const (
	DefaultSearchLimit   = 100
	DefaultHistogramBins = 30
)

func (p Params) valueColumn() string {
	if p.ValueColumn == "" {
		return dataset.ColPM25
	}
	return p.ValueColumn
}

func (p Params) corrColumns() []string {
	if len(p.CorrColumns) == 0 {
		return DefaultCorrelationColumns
	}
	return p.CorrColumns
}

func (p Params) searchLimit() int {
	if p.SearchLimit <= 0 {
		return DefaultSearchLimit
	}
	return p.SearchLimit
}

func (p Params) bins() int {
	if p.HistogramBins <= 0 {
		return DefaultHistogramBins
	}
	return p.HistogramBins
}
