package analysis

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

func TestCorrelationMatrix_SymmetricWithUnitDiagonal(t *testing.T) {
	m, err := CorrelationMatrix(prsa(t), DefaultCorrelationColumns)
	if err != nil {
		t.Fatalf("CorrelationMatrix: %v", err)
	}
	for i := range m.Columns {
		if float64(m.Values[i][i]) != 1 {
			t.Fatalf("diagonal %s = %v", m.Columns[i], m.Values[i][i])
		}
		for j := range m.Columns {
			if m.Values[i][j] != m.Values[j][i] {
				t.Fatalf("asymmetric at %d,%d", i, j)
			}
			if v := float64(m.Values[i][j]); v < -1 || v > 1 {
				t.Fatalf("coefficient out of range: %v", v)
			}
		}
	}
	if n := m.N[0][1]; n != 8 {
		t.Fatalf("PM2.5/TEMP pairs = %d, want 8", n)
	}
}

func TestCorrelationMatrix_PerfectAndUndefined(t *testing.T) {
	tbl := loadRows(t, []string{
		"year,month,day,hour,a,b,c,station",
		"2014,1,1,0,1,2,5,X",
		"2014,1,1,1,2,4,5,X",
		"2014,1,1,2,3,6,5,X",
	})
	m, err := CorrelationMatrix(tbl, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("CorrelationMatrix: %v", err)
	}
	if r, _ := m.At("a", "b"); !almostEqual(float64(r), 1) {
		t.Fatalf("r(a,b) = %v", r)
	}
	if r, _ := m.At("a", "c"); !r.IsNaN() {
		t.Fatalf("constant column should give NaN, got %v", r)
	}
	if r, _ := m.At("c", "c"); !r.IsNaN() {
		t.Fatalf("diagonal of constant column should be NaN, got %v", r)
	}
}

func TestCorrelationMatrix_MissingColumn(t *testing.T) {
	_, err := CorrelationMatrix(prsa(t), []string{dataset.ColPM25, "O3"})
	var mc *MissingColumnError
	if !errors.As(err, &mc) || mc.Column != "O3" {
		t.Fatalf("expected MissingColumnError for O3, got %v", err)
	}
}

func TestScatterPoints(t *testing.T) {
	s, err := ScatterPoints(prsa(t), dataset.ColTemp, dataset.ColPM25)
	if err != nil {
		t.Fatalf("ScatterPoints: %v", err)
	}
	if len(s.Points) != 8 {
		t.Fatalf("points = %d, want 8 complete pairs", len(s.Points))
	}
	if s.Points[0].X != 1 || s.Points[0].Y != 10 {
		t.Fatalf("first point = %+v", s.Points[0])
	}
}

func TestHistogramOf(t *testing.T) {
	h, err := HistogramOf(prsa(t), dataset.ColPM25, 9)
	if err != nil {
		t.Fatalf("HistogramOf: %v", err)
	}
	if len(h.Bins) != 9 || h.Missing != 1 {
		t.Fatalf("bins=%d missing=%d", len(h.Bins), h.Missing)
	}
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	if total != 8 {
		t.Fatalf("binned %d values, want 8", total)
	}
	if h.Bins[0].Lo != 10 || h.Bins[8].Hi != 100 || h.Bins[8].Count != 1 {
		t.Fatalf("edges = %+v .. %+v", h.Bins[0], h.Bins[8])
	}

	c, err := HistogramOf(filtered(t, "Dongsi"), dataset.ColPM25, 2)
	if err != nil {
		t.Fatalf("HistogramOf constant: %v", err)
	}
	if c.Bins[0].Lo != 99.5 || c.Bins[1].Hi != 100.5 || c.Bins[1].Count != 1 {
		t.Fatalf("constant bins = %+v", c.Bins)
	}
}
