package httpapi

import (
	"net/http"
	"strconv"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
	"github.com/KaramelBytes/aqdash-cli/internal/utils"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rows": s.engine.Data().Len()})
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stations": s.engine.Stations()})
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	b, ok := s.engine.Bounds()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dataset is empty", "kind": "empty_result"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"start": b.Start.Format(dataset.DatetimeLayout),
		"end":   b.End.Format(dataset.DatetimeLayout),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := s.params(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.engine.Dashboard(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// viewFunc computes one view over an already filtered table.
type viewFunc func(p analysis.Params, t *dataset.Table) (any, error)

func (s *Server) view(fn viewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.params(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		t, err := s.engine.Filter(p)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		v, err := fn(p, t)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func valueColumn(p analysis.Params) string {
	if p.ValueColumn == "" {
		return dataset.ColPM25
	}
	return p.ValueColumn
}

func describeView(_ analysis.Params, t *dataset.Table) (any, error) {
	return analysis.Describe(t), nil
}

func trendView(p analysis.Params, t *dataset.Table) (any, error) {
	pts, err := analysis.ResampleMean(t, p.Granularity, valueColumn(p))
	if err != nil {
		return nil, err
	}
	return map[string]any{"column": valueColumn(p), "granularity": p.Granularity, "points": pts}, nil
}

func monthlyView(p analysis.Params, t *dataset.Table) (any, error) {
	groups, err := analysis.MonthlyGroupMeans(t, valueColumn(p), p.MonthLabel)
	if err != nil {
		return nil, err
	}
	return map[string]any{"column": valueColumn(p), "label": p.MonthLabel, "groups": groups}, nil
}

func boxplotView(p analysis.Params, t *dataset.Table) (any, error) {
	boxes, err := analysis.MonthlyDistribution(t, valueColumn(p))
	if err != nil {
		return nil, err
	}
	return map[string]any{"column": valueColumn(p), "months": boxes}, nil
}

func corrView(p analysis.Params, t *dataset.Table) (any, error) {
	cols := p.CorrColumns
	if len(cols) == 0 {
		cols = analysis.DefaultCorrelationColumns
	}
	return analysis.CorrelationMatrix(t, cols)
}

func scatterView(p analysis.Params, t *dataset.Table) (any, error) {
	return analysis.ScatterPoints(t, p.XColumn, p.YColumn)
}

func histView(p analysis.Params, t *dataset.Table) (any, error) {
	return analysis.HistogramOf(t, valueColumn(p), p.HistogramBins)
}

func searchView(p analysis.Params, t *dataset.Table) (any, error) {
	return analysis.NewSearchResult(analysis.SearchRows(t, p.SearchText, p.SearchLimit), p.SearchText), nil
}

func insightView(p analysis.Params, t *dataset.Table) (any, error) {
	return analysis.InsightOf(t, p.Stations, valueColumn(p))
}

type exporter struct {
	ext         string
	contentType string
	encode      func(*dataset.Table, analysis.ExportOptions) ([]byte, error)
}

var (
	csvExport  = exporter{ext: "csv", contentType: "text/csv; charset=utf-8", encode: analysis.ToCSV}
	xlsxExport = exporter{
		ext:         "xlsx",
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		encode:      analysis.ToXLSX,
	}
)

func (s *Server) handleExport(ex exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.params(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		t, err := s.engine.Filter(p)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		q := r.URL.Query()
		opt := analysis.ExportOptions{
			IncludeDatetime: q.Get("datetime") == "1" || q.Get("datetime") == "true",
			IncludeMonth:    q.Get("month") == "1" || q.Get("month") == "true",
		}
		b, err := ex.encode(t, opt)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", ex.contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+utils.ExportFileName(p.Stations, ex.ext)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(b); err != nil {
			s.log.Warn("export write failed", "error", err)
		}
	}
}
