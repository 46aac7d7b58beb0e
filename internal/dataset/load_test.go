package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var componentRows = []string{
	"No,year,month,day,hour,PM2.5,TEMP,DEWP,WSPM,wd,station",
	"1,2013,3,1,0,4,-0.7,-18.8,4.4,NNW,Changping",
	"2,2013,3,1,1,8,-1.1,-18.2,4.7,N,Changping",
	"3,2013,3,1,2,NA,-1.1,-18.2,5.6,NNW,Dingling",
	"4,2013,3,1,3,6,-1.4,-19.4,3.1,NW,Dingling",
}

func TestReadCSV_SynthesizesDatetime(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(strings.Join(componentRows, "\n")), "prsa.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !tbl.DerivedTime {
		t.Fatalf("expected datetime to be synthesized")
	}
	if tbl.Len() != 4 {
		t.Fatalf("rows = %d, want 4", tbl.Len())
	}
	want := time.Date(2013, 3, 1, 1, 0, 0, 0, time.UTC)
	if !tbl.Records[1].Time.Equal(want) {
		t.Fatalf("time = %v, want %v", tbl.Records[1].Time, want)
	}
	if got := tbl.Stations(); len(got) != 2 || got[0] != "Changping" || got[1] != "Dingling" {
		t.Fatalf("stations = %#v", got)
	}
	pm, ok := tbl.ColumnIndex("pm2.5")
	if !ok {
		t.Fatalf("case-insensitive lookup failed")
	}
	if !math.IsNaN(tbl.Records[2].Nums[pm]) {
		t.Fatalf("NA should parse as missing, got %v", tbl.Records[2].Nums[pm])
	}
	if tbl.Kinds[pm] != KindNumeric {
		t.Fatalf("PM2.5 kind = %q", tbl.Kinds[pm])
	}
	wd, _ := tbl.ColumnIndex("wd")
	if tbl.Kinds[wd] != KindCategorical {
		t.Fatalf("wd kind = %q", tbl.Kinds[wd])
	}
	if txt := tbl.Text(tbl.Records[0]); txt[len(txt)-1] != "2013-03-01 00:00:00" {
		t.Fatalf("text should end with synthesized datetime, got %#v", txt)
	}
}

func TestReadCSV_DatetimeColumn(t *testing.T) {
	data := "datetime,station,PM2.5\n2014-01-02 05:00:00,Aotizhongxin,12\n2014-01-02 06:00:00,Aotizhongxin,\n"
	tbl, err := ReadCSV(strings.NewReader(data), "main_data.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.DerivedTime {
		t.Fatalf("datetime column present; nothing should be synthesized")
	}
	if tbl.Kinds[0] != KindDatetime {
		t.Fatalf("datetime kind = %q", tbl.Kinds[0])
	}
	minT, maxT, ok := tbl.Bounds()
	if !ok || minT.Hour() != 5 || maxT.Hour() != 6 {
		t.Fatalf("bounds = %v %v %v", minT, maxT, ok)
	}
}

func TestReadCSV_OffsetTimestampsKeepWallClock(t *testing.T) {
	data := "datetime,station,PM2.5\n2014-03-01T02:00:00+08:00,A,10\n2014-03-01T23:30:00-05:00,A,30\n"
	tbl, err := ReadCSV(strings.NewReader(data), "offsets.csv", DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := []time.Time{
		time.Date(2014, 3, 1, 2, 0, 0, 0, time.UTC),
		time.Date(2014, 3, 1, 23, 30, 0, 0, time.UTC),
	}
	for i, r := range tbl.Records {
		if !r.Time.Equal(want[i]) || r.Time.Location() != time.UTC {
			t.Fatalf("record %d time = %v, want %v", i, r.Time, want[i])
		}
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	cases := map[string]string{
		"station": "datetime,PM2.5\n2014-01-02 05:00:00,3\n",
		"hour":    "year,month,day,station\n2013,3,1,A\n",
	}
	for col, data := range cases {
		t.Run(col, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(data), "x.csv", DefaultOptions())
			var mc *MissingColumnError
			if !errors.As(err, &mc) {
				t.Fatalf("expected MissingColumnError, got %v", err)
			}
			if mc.Column != col {
				t.Fatalf("missing column = %q, want %q", mc.Column, col)
			}
		})
	}
}

func TestReadCSV_BadTimestamp(t *testing.T) {
	data := "datetime,station\nyesterday,A\n"
	if _, err := ReadCSV(strings.NewReader(data), "x.csv", DefaultOptions()); err == nil {
		t.Fatalf("expected error for unparseable datetime")
	}
}

func TestLoadCSV_FileErrors(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := filepath.Join(t.TempDir(), "data.tsv")
	if err := os.WriteFile(p, []byte("datetime\tstation\n2014-01-01 00:00:00\tA\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := Load(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Load tsv: %v", err)
	}
	if tbl.Len() != 1 || tbl.Records[0].Station != "A" {
		t.Fatalf("unexpected tsv table: %#v", tbl.Records)
	}
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("Readings"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]interface{}{
		{"datetime", "station", "PM2.5"},
		{"2014-05-01 00:00:00", "Gucheng", 41.0},
		{"2014-05-01 01:00:00", "Gucheng", 39.5},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Readings", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "readings.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	opt := DefaultOptions()
	opt.SheetName = "readings"
	tbl, err := Load(path, opt)
	if err != nil {
		t.Fatalf("LoadXLSX by name: %v", err)
	}
	if tbl.Len() != 2 || tbl.Records[1].Nums[2] != 39.5 {
		t.Fatalf("unexpected xlsx rows: %#v", tbl.Records)
	}

	opt.SheetName = "Missing"
	if _, err := LoadXLSX(path, opt); err == nil || !strings.Contains(err.Error(), "Available sheets") {
		t.Fatalf("expected sheet-not-found error, got %v", err)
	}

	opt = DefaultOptions()
	opt.SheetIndex = 2
	if _, err := LoadXLSX(path, opt); err != nil {
		t.Fatalf("LoadXLSX by index: %v", err)
	}
}
