package analysis

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// outlierThreshold is the robust |z| above which a value counts as an outlier.
const outlierThreshold = 3.5

// NumericStats holds the describe() rows of a numeric column.
type NumericStats struct {
	Mean   Float `json:"mean" yaml:"mean"`
	Std    Float `json:"std" yaml:"std"`
	Min    Float `json:"min" yaml:"min"`
	Q25    Float `json:"q25" yaml:"q25"`
	Median Float `json:"q50" yaml:"q50"`
	Q75    Float `json:"q75" yaml:"q75"`
	Max    Float `json:"max" yaml:"max"`
	// Outliers counts values with robust |z| (MAD based) above the threshold.
	Outliers int   `json:"outliers" yaml:"outliers"`
	MaxAbsZ  Float `json:"max_abs_z" yaml:"max_abs_z"`
}

// ColumnStats captures descriptive statistics for one column.
type ColumnStats struct {
	Name    string        `json:"name" yaml:"name"`
	Kind    dataset.Kind  `json:"kind" yaml:"kind"`
	Count   int           `json:"count" yaml:"count"`
	Missing int           `json:"missing" yaml:"missing"`
	Numeric *NumericStats `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	// Categorical and datetime stats
	Unique int    `json:"unique,omitempty" yaml:"unique,omitempty"`
	Top    string `json:"top,omitempty" yaml:"top,omitempty"`
	Freq   int    `json:"freq,omitempty" yaml:"freq,omitempty"`
	First  string `json:"first,omitempty" yaml:"first,omitempty"`
	Last   string `json:"last,omitempty" yaml:"last,omitempty"`
}

// Description is the describe() table of a record set.
type Description struct {
	Rows    int           `json:"rows" yaml:"rows"`
	Columns []ColumnStats `json:"columns" yaml:"columns"`
}

// Column returns the stats of the named column.
func (d Description) Column(name string) (ColumnStats, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Describe computes per-column statistics: count, mean, sample standard
// deviation, min, quartiles and max for numeric columns; count, unique, top and
// freq for categorical ones; count, unique, first and last for datetime.
func Describe(t *dataset.Table) Description {
	d := Description{Rows: t.Len(), Columns: make([]ColumnStats, 0, len(t.Columns))}
	for j, name := range t.Columns {
		s := ColumnStats{Name: name, Kind: t.Kinds[j]}
		switch s.Kind {
		case dataset.KindNumeric:
			vals := t.Present(j)
			s.Count = len(vals)
			s.Missing = t.Len() - s.Count
			s.Numeric = describeNumeric(vals)
		case dataset.KindDatetime:
			describeDatetime(&s, t)
		default:
			describeCategorical(&s, t, j)
		}
		d.Columns = append(d.Columns, s)
	}
	return d
}

func describeNumeric(vals []float64) *NumericStats {
	n := &NumericStats{Mean: nan, Std: nan, Min: nan, Q25: nan, Median: nan, Q75: nan, Max: nan}
	if len(vals) == 0 {
		return n
	}
	sorted := sortedCopy(vals)
	n.Mean = Float(stat.Mean(vals, nil))
	if len(vals) > 1 {
		n.Std = Float(stat.StdDev(vals, nil))
	}
	n.Min = Float(sorted[0])
	n.Max = Float(sorted[len(sorted)-1])
	n.Q25 = Float(quantile(sorted, 0.25))
	n.Median = Float(quantile(sorted, 0.5))
	n.Q75 = Float(quantile(sorted, 0.75))
	if len(vals) >= 8 {
		cnt, z := robustOutliers(vals, outlierThreshold)
		n.Outliers = cnt
		n.MaxAbsZ = Float(z)
	}
	return n
}

func describeCategorical(s *ColumnStats, t *dataset.Table, col int) {
	counts := map[string]int{}
	var order []string
	for _, r := range t.Records {
		v := strings.TrimSpace(r.Cells[col])
		if dataset.IsMissing(v) {
			s.Missing++
			continue
		}
		s.Count++
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	s.Unique = len(counts)
	// ties go to the value seen first
	for _, v := range order {
		if counts[v] > s.Freq {
			s.Top, s.Freq = v, counts[v]
		}
	}
}

func describeDatetime(s *ColumnStats, t *dataset.Table) {
	seen := map[int64]struct{}{}
	var first, last time.Time
	for i, r := range t.Records {
		seen[r.Time.UnixNano()] = struct{}{}
		if i == 0 || r.Time.Before(first) {
			first = r.Time
		}
		if i == 0 || r.Time.After(last) {
			last = r.Time
		}
	}
	s.Count = t.Len()
	s.Unique = len(seen)
	if s.Count > 0 {
		s.First = first.Format(dateTimeLayout)
		s.Last = last.Format(dateTimeLayout)
	}
}

// NumericColumns lists the numeric columns of t in header order.
func NumericColumns(t *dataset.Table) []string { return t.NumericColumns() }
