package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix. Undefined
// coefficients are NaN.
type CorrMatrix struct {
	Columns []string  `json:"columns" yaml:"columns"`
	Values  [][]Float `json:"values" yaml:"values"` // row-major, Values[i][j]
	// N[i][j] is the number of rows where both columns are present.
	N [][]int `json:"n" yaml:"n"`
}

// At returns the coefficient for a column pair.
func (m *CorrMatrix) At(a, b string) (Float, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return nan, false
	}
	return m.Values[ia][ib], true
}

// CorrelationMatrix computes pairwise-complete Pearson correlations: each pair
// uses only the rows where both columns have a value. A zero-variance column or
// a pair with fewer than two complete rows yields NaN; the diagonal is 1 wherever
// the column varies.
func CorrelationMatrix(t *dataset.Table, columns []string) (*CorrMatrix, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, err := t.Require(c, "correlation")
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	n := len(columns)
	m := &CorrMatrix{Columns: append([]string(nil), columns...), Values: make([][]Float, n), N: make([][]int, n)}
	for i := range m.Values {
		m.Values[i] = make([]Float, n)
		m.N[i] = make([]int, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			x, y := completePairs(t, idx[a], idx[b])
			r := pearson(x, y)
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			m.Values[a][b], m.Values[b][a] = Float(r), Float(r)
			m.N[a][b], m.N[b][a] = len(x), len(x)
		}
	}
	return m, nil
}

func completePairs(t *dataset.Table, ca, cb int) (x, y []float64) {
	for _, r := range t.Records {
		va, vb := r.Nums[ca], r.Nums[cb]
		if math.IsNaN(va) || math.IsNaN(vb) {
			continue
		}
		x = append(x, va)
		y = append(y, vb)
	}
	return x, y
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
