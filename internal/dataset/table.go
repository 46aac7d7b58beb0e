package dataset

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Well-known column names of the air-quality dataset.
const (
	ColStation  = "station"
	ColDatetime = "datetime"
	ColYear     = "year"
	ColMonth    = "month"
	ColDay      = "day"
	ColHour     = "hour"
	ColPM25     = "PM2.5"
	ColTemp     = "TEMP"
	ColDewPoint = "DEWP"
	ColWindSpd  = "WSPM"
)

// DatetimeLayout is the textual form used when a synthesized datetime is written out.
const DatetimeLayout = "2006-01-02 15:04:05"

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
)

// Record is one observational reading. Cells holds the raw text in column order;
// Nums holds the parsed value of each cell, NaN when missing or not numeric.
type Record struct {
	Station string
	Time    time.Time
	Cells   []string
	Nums    []float64
}

// Table is an immutable, ordered set of records sharing one header.
type Table struct {
	Name    string
	Columns []string
	Kinds   []Kind
	Records []Record
	// DerivedTime reports that datetime was synthesized from year/month/day/hour
	// rather than read from a column.
	DerivedTime bool

	index map[string]int
}

// MissingColumnError reports a required column that is absent from the data.
type MissingColumnError struct {
	Column string
	View   string
}

func (e *MissingColumnError) Error() string {
	if e.View != "" {
		return fmt.Sprintf("%s: column %q not found in dataset", e.View, e.Column)
	}
	return fmt.Sprintf("column %q not found in dataset", e.Column)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// ColumnIndex resolves a column by exact name, falling back to a case-insensitive match.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	name = strings.TrimSpace(name)
	if i, ok := t.index[name]; ok {
		return i, true
	}
	i, ok := t.index[strings.ToLower(name)]
	return i, ok
}

// Require resolves a column or returns a MissingColumnError tagged with view.
func (t *Table) Require(name, view string) (int, error) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return -1, &MissingColumnError{Column: name, View: view}
	}
	return i, nil
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns)*2)
	for i, c := range t.Columns {
		lower := strings.ToLower(c)
		if _, dup := t.index[lower]; !dup {
			t.index[lower] = i
		}
	}
	// exact names win over lowercased aliases
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Subset returns a table with the same header and the given records.
func (t *Table) Subset(records []Record) *Table {
	return &Table{
		Name:        t.Name,
		Columns:     t.Columns,
		Kinds:       t.Kinds,
		Records:     records,
		DerivedTime: t.DerivedTime,
		index:       t.index,
	}
}

// Values returns the parsed values of column col, NaN where missing.
func (t *Table) Values(col int) []float64 {
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Nums[col]
	}
	return out
}

// Present returns only the non-missing values of column col.
func (t *Table) Present(col int) []float64 {
	out := make([]float64, 0, len(t.Records))
	for _, r := range t.Records {
		if v := r.Nums[col]; !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// NumericColumns lists numeric column names in header order.
func (t *Table) NumericColumns() []string {
	var out []string
	for i, k := range t.Kinds {
		if k == KindNumeric {
			out = append(out, t.Columns[i])
		}
	}
	return out
}

// Stations returns distinct station names in order of first appearance.
func (t *Table) Stations() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range t.Records {
		if _, ok := seen[r.Station]; ok {
			continue
		}
		seen[r.Station] = struct{}{}
		out = append(out, r.Station)
	}
	return out
}

// Bounds returns the earliest and latest record timestamps.
func (t *Table) Bounds() (minT, maxT time.Time, ok bool) {
	for i, r := range t.Records {
		if i == 0 || r.Time.Before(minT) {
			minT = r.Time
		}
		if i == 0 || r.Time.After(maxT) {
			maxT = r.Time
		}
	}
	return minT, maxT, len(t.Records) > 0
}

// Text renders a record the way it is searched and displayed: every cell, plus
// the synthesized timestamp when the table has no datetime column.
func (t *Table) Text(r Record) []string {
	if !t.DerivedTime {
		return r.Cells
	}
	out := make([]string, 0, len(r.Cells)+1)
	out = append(out, r.Cells...)
	return append(out, r.Time.Format(DatetimeLayout))
}
