package analysis

import (
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// Bin is a histogram bucket [Lo, Hi); the last bin also includes Hi.
type Bin struct {
	Lo    float64 `json:"lo" yaml:"lo"`
	Hi    float64 `json:"hi" yaml:"hi"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram is the value distribution of one column.
type Histogram struct {
	Column  string `json:"column" yaml:"column"`
	Bins    []Bin  `json:"bins" yaml:"bins"`
	Missing int    `json:"missing" yaml:"missing"`
}

// HistogramOf splits the non-missing values of column into equal-width bins
// spanning [min, max]. A constant column spans [v-0.5, v+0.5].
func HistogramOf(t *dataset.Table, column string, bins int) (*Histogram, error) {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	col, err := t.Require(column, "histogram")
	if err != nil {
		return nil, err
	}
	vals := t.Present(col)
	h := &Histogram{Column: t.Columns[col], Bins: []Bin{}, Missing: t.Len() - len(vals)}
	if len(vals) == 0 {
		return h, nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i].Lo = lo + float64(i)*width
		h.Bins[i].Hi = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Hi = hi
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Bins[i].Count++
	}
	return h, nil
}
