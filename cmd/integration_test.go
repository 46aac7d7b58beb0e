package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var fixtureRows = []string{
	"No,year,month,day,hour,PM2.5,TEMP,DEWP,WSPM,wd,station",
	"1,2013,3,1,0,10,1.0,-5,2.0,NNW,Aotizhongxin",
	"2,2013,3,1,0,20,2.0,-6,1.5,N,Changping",
	"3,2013,3,1,1,30,3.0,-7,1.0,NNW,Aotizhongxin",
	"4,2013,3,1,1,NA,4.0,-8,0.5,E,Changping",
	"5,2013,4,2,0,40,10.0,0,3.0,NW,Aotizhongxin",
	"6,2013,4,2,0,60,12.0,1,2.5,NW,Changping",
}

// resetFlags restores every flag to its default; cobra keeps values and
// Changed state across Execute calls in one process.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func writeFixture(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "prsa.csv")
	if err := os.WriteFile(path, []byte(strings.Join(fixtureRows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCLI_Stations(t *testing.T) {
	data := writeFixture(t)
	out := mustRun(t, "stations", "--data", data, "--format", "json")
	var got struct {
		Stations []string
		Start    string
		End      string
		Rows     int
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got.Stations) != 2 || got.Rows != 6 || got.Start != "2013-03-01 00:00:00" || got.End != "2013-04-02 00:00:00" {
		t.Fatalf("stations = %+v", got)
	}
}

func TestCLI_TrendJSON(t *testing.T) {
	data := writeFixture(t)
	out := mustRun(t, "trend", "--data", data, "-s", "Aotizhongxin", "-s", "Changping", "--granularity", "monthly", "--format", "json")
	var pts []analysis.Point
	if err := json.Unmarshal([]byte(out), &pts); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(pts) != 2 || pts[0].Mean != 20 || pts[1].Mean != 50 {
		t.Fatalf("points = %+v", pts)
	}
}

func TestCLI_MarkdownViews(t *testing.T) {
	data := writeFixture(t)
	cases := map[string][]string{
		"[DESCRIPTIVE STATISTICS]":        {"describe"},
		"[MONTHLY MEAN PM2.5 BY STATION]": {"monthly", "-s", "Aotizhongxin,Changping"},
		"[CORRELATIONS]":                  {"corr"},
		"[SCATTER TEMP vs PM2.5]":         {"scatter", "--x", "TEMP", "--y", "PM2.5"},
		"[HISTOGRAM PM2.5]":               {"hist", "--bins", "4"},
		"[DISTRIBUTION PM2.5 PER MONTH]":  {"boxplot"},
		`[RAW DATA matching "nnw"]`:       {"search", "nnw"},
		"[INSIGHT]":                       {"insight", "-s", "Aotizhongxin", "-s", "Changping"},
		"[AIR QUALITY DASHBOARD]":         {"report", "--granularity", "weekly"},
		"[WEEKLY MEAN PM2.5]":             {"report", "--granularity", "weekly"},
		"Changping averages 13.33 higher": {"insight", "-s", "Aotizhongxin", "-s", "Changping"},
	}
	for want, args := range cases {
		out := mustRun(t, append(args, "--data", data)...)
		if !strings.Contains(out, want) {
			t.Fatalf("%v: output missing %q:\n%s", args, want, out)
		}
	}
}

func TestCLI_YAMLFormat(t *testing.T) {
	data := writeFixture(t)
	out := mustRun(t, "hist", "--data", data, "--bins", "3", "--format", "yaml")
	if !strings.Contains(out, "column: PM2.5") || !strings.Contains(out, "bins:") {
		t.Fatalf("yaml = %s", out)
	}
	if _, err := runCmd(t, "hist", "--data", data, "--format", "xml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCLI_FilterErrors(t *testing.T) {
	data := writeFixture(t)
	_, err := runCmd(t, "describe", "--data", data, "--start", "2013-04-01", "--end", "2013-03-01")
	var ire *analysis.InvalidRangeError
	if !errors.As(err, &ire) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	_, err = runCmd(t, "trend", "--data", data, "--start", "2013-03-02")
	if !errors.As(err, &ire) || ire.Reason != "end date is required" {
		t.Fatalf("start only: expected InvalidRangeError, got %v", err)
	}
	_, err = runCmd(t, "describe", "--data", data, "-s", "Dongsi")
	var ere *analysis.EmptyResultError
	if !errors.As(err, &ere) {
		t.Fatalf("expected EmptyResultError, got %v", err)
	}
	_, err = runCmd(t, "trend", "--data", data, "--column", "PM10")
	var mce *analysis.MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if _, err := runCmd(t, "describe", "--data", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestCLI_ExportCSVDefaultName(t *testing.T) {
	data := writeFixture(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	out := mustRun(t, "export", "--data", data, "-s", "Changping")
	if !strings.Contains(out, "✓ Wrote 3 rows to data_Changping.csv") {
		t.Fatalf("output = %s", out)
	}
	back, err := dataset.Load(filepath.Join(dir, "data_Changping.csv"), dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Len() != 3 || back.Records[1].Cells[5] != "NA" {
		t.Fatalf("reloaded %d rows: %+v", back.Len(), back.Records)
	}
}

func TestCLI_ExportXLSX(t *testing.T) {
	data := writeFixture(t)
	out := filepath.Join(t.TempDir(), "aoti.xlsx")
	mustRun(t, "export", "--data", data, "-s", "Aotizhongxin", "-o", out, "--with-datetime")
	back, err := dataset.Load(out, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Len() != 3 || back.DerivedTime {
		t.Fatalf("reloaded %d rows, derived=%v", back.Len(), back.DerivedTime)
	}
	if _, err := runCmd(t, "export", "--data", data, "-o", filepath.Join(t.TempDir(), "x.parquet")); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}

func TestCLI_ReportToFile(t *testing.T) {
	data := writeFixture(t)
	path := filepath.Join(t.TempDir(), "report.json")
	mustRun(t, "report", "--data", data, "-s", "Aotizhongxin", "--format", "json", "-o", path, "-q", "NNW")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var d struct {
		Rows   int
		Search analysis.SearchResult
	}
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Rows != 3 || len(d.Search.Rows) != 2 {
		t.Fatalf("report rows=%d search=%d", d.Rows, len(d.Search.Rows))
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	mustRun(t, "config", "set", "default_station", "Changping", "--config", path)
	mustRun(t, "config", "set", "granularity", "W", "--config", path)
	if _, err := runCmd(t, "config", "set", "search_limit", "0", "--config", path); err == nil {
		t.Fatalf("expected invalid search_limit")
	}
	if _, err := runCmd(t, "config", "set", "api_key", "x", "--config", path); err == nil {
		t.Fatalf("expected unknown key error")
	}
	out := mustRun(t, "config", "show", "--config", path)
	if !strings.Contains(out, "default_station: Changping") || !strings.Contains(out, "granularity: weekly") {
		t.Fatalf("show = %s", out)
	}
	b, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(b), "default_station: Changping") {
		t.Fatalf("saved config = %s, %v", b, err)
	}
}
