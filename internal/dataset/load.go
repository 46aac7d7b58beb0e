package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Options controls how a dataset file is read.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// DecimalSeparator for numbers; 0 means '.'.
	DecimalSeparator rune
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetName wins; SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for the air-quality CSV exports.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Load reads a CSV, TSV or XLSX file chosen by extension.
func Load(path string, opt Options) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited file from disk.
func LoadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV reads a delimited stream. The first row is the header.
func ReadCSV(rd io.Reader, name string, opt Options) (*Table, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	r.Comma = opt.Delimiter
	if r.Comma == 0 {
		r.Comma = ','
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			break
		}
		rows = append(rows, rec)
	}
	return Build(name, header, rows, opt)
}

// Build assembles a Table from a header and raw rows: it resolves the station and
// time columns, parses numbers and infers column kinds.
func Build(name string, header []string, rows [][]string, opt Options) (*Table, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[i] = h
	}
	t := &Table{Name: name, Columns: cols}
	t.buildIndex()

	stationIdx, err := t.Require(ColStation, "load")
	if err != nil {
		return nil, err
	}
	timeOf, derived, err := timeResolver(t)
	if err != nil {
		return nil, err
	}
	t.DerivedTime = derived

	ncol := len(cols)
	t.Records = make([]Record, 0, len(rows))
	for n, raw := range rows {
		if len(raw) > ncol {
			return nil, fmt.Errorf("row %d: %d fields, header has %d", n+1, len(raw), ncol)
		}
		cells := make([]string, ncol)
		copy(cells, raw)
		nums := make([]float64, ncol)
		for j, c := range cells {
			if v, ok := parseNumeric(c, opt.DecimalSeparator); ok {
				nums[j] = v
			} else {
				nums[j] = math.NaN()
			}
		}
		ts, err := timeOf(cells, nums)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		t.Records = append(t.Records, Record{
			Station: strings.TrimSpace(cells[stationIdx]),
			Time:    ts,
			Cells:   cells,
			Nums:    nums,
		})
	}
	t.Kinds = inferKinds(t, stationIdx)
	return t, nil
}

type timeFunc func(cells []string, nums []float64) (time.Time, error)

// timeResolver picks the datetime column, or the year/month/day/hour components
// when it is absent.
func timeResolver(t *Table) (timeFunc, bool, error) {
	if idx, ok := t.ColumnIndex(ColDatetime); ok {
		return func(cells []string, _ []float64) (time.Time, error) {
			ts, ok := parseTimeMaybe(strings.TrimSpace(cells[idx]))
			if !ok {
				return time.Time{}, fmt.Errorf("invalid datetime %q", cells[idx])
			}
			return ts, nil
		}, false, nil
	}
	parts := make([]int, 4)
	for i, name := range []string{ColYear, ColMonth, ColDay, ColHour} {
		idx, err := t.Require(name, "load")
		if err != nil {
			return nil, false, err
		}
		parts[i] = idx
	}
	return func(cells []string, nums []float64) (time.Time, error) {
		var v [4]int
		for i, idx := range parts {
			x := nums[idx]
			if math.IsNaN(x) || x != math.Trunc(x) {
				return time.Time{}, fmt.Errorf("invalid %s %q", t.Columns[idx], cells[idx])
			}
			v[i] = int(x)
		}
		if v[1] < 1 || v[1] > 12 || v[2] < 1 || v[2] > 31 || v[3] < 0 || v[3] > 23 {
			return time.Time{}, fmt.Errorf("invalid date components %d-%d-%d %d:00", v[0], v[1], v[2], v[3])
		}
		return time.Date(v[0], time.Month(v[1]), v[2], v[3], 0, 0, 0, time.UTC), nil
	}, true, nil
}

func inferKinds(t *Table, stationIdx int) []Kind {
	kinds := make([]Kind, len(t.Columns))
	dtIdx, hasDT := t.ColumnIndex(ColDatetime)
	for j := range t.Columns {
		switch {
		case hasDT && j == dtIdx:
			kinds[j] = KindDatetime
			continue
		case j == stationIdx:
			kinds[j] = KindCategorical
			continue
		}
		present, numeric := 0, 0
		for _, r := range t.Records {
			if IsMissing(r.Cells[j]) {
				continue
			}
			present++
			if !math.IsNaN(r.Nums[j]) {
				numeric++
			}
		}
		if present > 0 && numeric == present {
			kinds[j] = KindNumeric
		} else {
			kinds[j] = KindCategorical
		}
	}
	return kinds
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {}, "None": {},
}

// IsMissing reports whether a raw cell is one of the missing-value tokens.
func IsMissing(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

func parseNumeric(s string, dec rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	if IsMissing(raw) {
		return 0, false
	}
	if dec != 0 && dec != '.' {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05", time.RFC3339,
	"2006-01-02", "2006/01/02 15:04", "2006/01/02", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return WallClock(t), true
		}
	}
	return time.Time{}, false
}

// WallClock keeps the local date and clock reading of t and drops its offset,
// so every timestamp is compared and bucketed as a UTC wall time.
func WallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
