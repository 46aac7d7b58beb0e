package analysis

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// Engine derives dashboard views from a dataset loaded once at startup. The
// table is never mutated, so an Engine is safe for concurrent use.
type Engine struct {
	data *dataset.Table
	log  *slog.Logger
}

// New wraps a loaded table. A nil logger falls back to slog.Default().
func New(data *dataset.Table, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{data: data, log: log}
}

// Data returns the raw table.
func (e *Engine) Data() *dataset.Table { return e.data }

// Stations lists station names in order of first appearance.
func (e *Engine) Stations() []string { return e.data.Stations() }

// Bounds returns the full time span of the data as a range.
func (e *Engine) Bounds() (DateRange, bool) {
	lo, hi, ok := e.data.Bounds()
	return DateRange{Start: lo, End: hi}, ok
}

// ResolveRange parses user bounds. When both are empty the full data span is
// used; a single empty endpoint is an InvalidRangeError.
func (e *Engine) ResolveRange(start, end string) (DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		if lo, hi, ok := e.data.Bounds(); ok {
			return DateRange{Start: lo, End: hi}, nil
		}
		return DateRange{}, &InvalidRangeError{Reason: "no data to derive a date range from"}
	case start == "":
		return DateRange{}, &InvalidRangeError{End: end, Reason: "start date is required"}
	case end == "":
		return DateRange{}, &InvalidRangeError{Start: start, Reason: "end date is required"}
	}
	return ParseDateRange(start, end)
}

// Filter applies the station and date predicates of p.
func (e *Engine) Filter(p Params) (*dataset.Table, error) {
	return FilterRecords(e.data, p.Stations, p.Range)
}

// Dashboard is every derived view of one render cycle. A view that fails with
// MissingColumnError is left empty and its error recorded in Errors.
type Dashboard struct {
	RunID        string            `json:"run_id" yaml:"run_id"`
	Stations     []string          `json:"stations" yaml:"stations"`
	Start        time.Time         `json:"start" yaml:"start"`
	End          time.Time         `json:"end" yaml:"end"`
	Granularity  Granularity       `json:"granularity" yaml:"granularity"`
	Column       string            `json:"column" yaml:"column"`
	Rows         int               `json:"rows" yaml:"rows"`
	Describe     Description       `json:"describe" yaml:"describe"`
	Trend        []Point           `json:"trend" yaml:"trend"`
	Monthly      []GroupMean       `json:"monthly" yaml:"monthly"`
	Correlation  *CorrMatrix       `json:"correlation,omitempty" yaml:"correlation,omitempty"`
	Scatter      *Scatter          `json:"scatter,omitempty" yaml:"scatter,omitempty"`
	Histogram    *Histogram        `json:"histogram,omitempty" yaml:"histogram,omitempty"`
	Distribution []BoxStats        `json:"distribution" yaml:"distribution"`
	Search       SearchResult      `json:"search" yaml:"search"`
	Insight      *Insight          `json:"insight,omitempty" yaml:"insight,omitempty"`
	Errors       map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Dashboard runs the whole pipeline for p. InvalidRangeError and
// EmptyResultError abort it; per-view column errors do not.
func (e *Engine) Dashboard(p Params) (*Dashboard, error) {
	runID := uuid.NewString()
	log := e.log.With("run_id", runID)
	started := time.Now()

	filtered, err := e.Filter(p)
	if err != nil {
		log.Info("dashboard halted", "stations", p.Stations, "error", err)
		return nil, err
	}
	if p.Granularity == "" {
		p.Granularity = Daily
	}
	if p.MonthLabel == "" {
		p.MonthLabel = YearMonth
	}
	d := &Dashboard{
		RunID:       runID,
		Stations:    p.Stations,
		Start:       p.Range.Start,
		End:         p.Range.End,
		Granularity: p.Granularity,
		Column:      p.valueColumn(),
		Rows:        filtered.Len(),
		Describe:    Describe(filtered),
	}
	record := func(view string, err error) {
		if err == nil {
			return
		}
		var mc *MissingColumnError
		if !errors.As(err, &mc) {
			log.Error("view failed", "view", view, "error", err)
		} else {
			log.Warn("view skipped", "view", view, "error", err)
		}
		if d.Errors == nil {
			d.Errors = map[string]string{}
		}
		d.Errors[view] = err.Error()
	}

	value := d.Column
	var verr error
	d.Trend, verr = ResampleMean(filtered, p.Granularity, value)
	record("trend", verr)
	d.Monthly, verr = MonthlyGroupMeans(filtered, value, p.MonthLabel)
	record("monthly", verr)
	d.Correlation, verr = CorrelationMatrix(filtered, p.corrColumns())
	record("correlation", verr)
	d.Scatter, verr = ScatterPoints(filtered, p.XColumn, p.YColumn)
	record("scatter", verr)
	d.Histogram, verr = HistogramOf(filtered, value, p.bins())
	record("histogram", verr)
	d.Distribution, verr = MonthlyDistribution(filtered, value)
	record("distribution", verr)
	d.Insight, verr = InsightOf(filtered, p.Stations, value)
	record("insight", verr)
	d.Search = NewSearchResult(SearchRows(filtered, p.SearchText, p.searchLimit()), p.SearchText)

	log.Debug("dashboard built",
		"stations", p.Stations,
		"rows", d.Rows,
		"granularity", p.Granularity,
		"elapsed", time.Since(started),
	)
	return d, nil
}
