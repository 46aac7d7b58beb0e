package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
)

// Defaults fill in query parameters the client leaves out.
type Defaults struct {
	Station       string
	Granularity   analysis.Granularity
	SearchLimit   int
	HistogramBins int
}

// params reads the filter and view parameters of a request. Missing stations
// fall back to the default station and missing dates to the data span.
func (s *Server) params(r *http.Request) (analysis.Params, error) {
	q := r.URL.Query()
	p := analysis.Params{
		Stations:      cleanList(q["station"]),
		Granularity:   s.defaults.Granularity,
		ValueColumn:   q.Get("column"),
		SearchText:    q.Get("q"),
		SearchLimit:   s.defaults.SearchLimit,
		XColumn:       q.Get("x"),
		YColumn:       q.Get("y"),
		HistogramBins: s.defaults.HistogramBins,
		MonthLabel:    analysis.YearMonth,
	}
	if len(p.Stations) == 0 && s.defaults.Station != "" {
		p.Stations = []string{s.defaults.Station}
	}
	rng, err := s.engine.ResolveRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return p, err
	}
	p.Range = rng
	if g := q.Get("granularity"); g != "" {
		if p.Granularity, err = analysis.ParseGranularity(g); err != nil {
			return p, &queryError{param: "granularity", msg: err.Error()}
		}
	}
	if n, ok, err := positiveInt(q.Get("bins")); err != nil {
		return p, &queryError{param: "bins", msg: err.Error()}
	} else if ok {
		p.HistogramBins = n
	}
	if n, ok, err := positiveInt(q.Get("limit")); err != nil {
		return p, &queryError{param: "limit", msg: err.Error()}
	} else if ok {
		p.SearchLimit = n
	}
	switch q.Get("label") {
	case "", string(analysis.YearMonth):
	case string(analysis.MonthOfYear):
		p.MonthLabel = analysis.MonthOfYear
	default:
		return p, &queryError{param: "label", msg: "use year-month or month-of-year"}
	}
	if cols := cleanList(q["corr"]); len(cols) > 0 {
		p.CorrColumns = cols
	}
	return p, nil
}

func positiveInt(s string) (int, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("%q is not a positive integer", s)
	}
	return n, true, nil
}

// cleanList accepts both repeated parameters and comma separated values.
func cleanList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
