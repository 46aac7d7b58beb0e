package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// ExportOptions selects derived columns to append after the original ones.
type ExportOptions struct {
	// IncludeDatetime appends the synthesized datetime when the source had none.
	IncludeDatetime bool
	// IncludeMonth appends the month number (1-12) unless a month column exists.
	IncludeMonth bool
}

// ExportSheet is the worksheet name used by ToXLSX.
const ExportSheet = "data"

func exportHeader(t *dataset.Table, opt ExportOptions) []string {
	h := append([]string(nil), t.Columns...)
	if opt.IncludeDatetime && t.DerivedTime {
		h = append(h, dataset.ColDatetime)
	}
	if opt.IncludeMonth {
		if _, ok := t.ColumnIndex(dataset.ColMonth); !ok {
			h = append(h, dataset.ColMonth)
		}
	}
	return h
}

func exportRow(t *dataset.Table, r dataset.Record, opt ExportOptions) []string {
	row := append([]string(nil), r.Cells...)
	if opt.IncludeDatetime && t.DerivedTime {
		row = append(row, r.Time.Format(dataset.DatetimeLayout))
	}
	if opt.IncludeMonth {
		if _, ok := t.ColumnIndex(dataset.ColMonth); !ok {
			row = append(row, strconv.Itoa(int(r.Time.Month())))
		}
	}
	return row
}

// WriteCSV writes the header and one row per record, comma-delimited.
func WriteCSV(w io.Writer, t *dataset.Table, opt ExportOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(t, opt)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Records {
		if err := cw.Write(exportRow(t, r, opt)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV serializes t as UTF-8 CSV bytes.
func ToCSV(t *dataset.Table, opt ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToXLSX serializes t as a single-sheet workbook. Numeric cells are stored as
// numbers; everything else keeps its raw text.
func ToXLSX(t *dataset.Table, opt ExportOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header := exportHeader(t, opt)
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &hdr); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Records {
		text := exportRow(t, r, opt)
		row := make([]interface{}, len(text))
		for j, c := range text {
			row[j] = c
			if j < len(t.Kinds) && t.Kinds[j] == dataset.KindNumeric && !math.IsNaN(r.Nums[j]) {
				row[j] = r.Nums[j]
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
