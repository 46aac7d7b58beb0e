package analysis

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

func filtered(t *testing.T, stations ...string) *dataset.Table {
	t.Helper()
	tbl, err := FilterRecords(prsa(t), stations, fullRange())
	if err != nil {
		t.Fatalf("FilterRecords: %v", err)
	}
	return tbl
}

func TestResampleMean_Monthly(t *testing.T) {
	got, err := ResampleMean(filtered(t, "Aotizhongxin", "Changping"), Monthly, dataset.ColPM25)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	want := []Point{
		{Period: day(2013, 3, 1), Mean: 20, Count: 3},
		{Period: day(2013, 4, 1), Mean: 50, Count: 2},
		{Period: day(2013, 5, 1), Mean: 60, Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("periods = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Period.Equal(want[i].Period) || !almostEqual(got[i].Mean, want[i].Mean) || got[i].Count != want[i].Count {
			t.Fatalf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestResampleMean_DailyAveragesSameDay(t *testing.T) {
	got, err := ResampleMean(filtered(t, "Aotizhongxin", "Changping"), Daily, dataset.ColPM25)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("days = %d, want 3", len(got))
	}
	if !got[0].Period.Equal(day(2013, 3, 1)) || !almostEqual(got[0].Mean, 20.0) {
		t.Fatalf("first day = %+v, want mean 20 on 2013-03-01", got[0])
	}
}

func TestResampleMean_WeeklyStartsMonday(t *testing.T) {
	got, err := ResampleMean(filtered(t, "Dongsi", "Changping"), Weekly, dataset.ColPM25)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("weeks = %d, want 3", len(got))
	}
	// 2013-03-01 is a Friday.
	if !got[0].Period.Equal(day(2013, 2, 25)) || got[0].Period.Weekday() != time.Monday {
		t.Fatalf("first week = %v", got[0].Period)
	}
	if !almostEqual(got[2].Mean, 85) || got[2].Count != 2 {
		t.Fatalf("last week = %+v, want mean 85 over 2", got[2])
	}
}

func TestResampleMean_OffsetTimestamps(t *testing.T) {
	tbl := loadRows(t, []string{
		"datetime,station,PM2.5",
		"2014-03-01T02:00:00+08:00,A,10",
		"2014-03-01T05:00:00+08:00,A,30",
	})
	day := DateRange{Start: time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC)}
	day.End = day.Start.Add(24*time.Hour - time.Nanosecond)
	got, err := FilterRecords(tbl, []string{"A"}, day)
	if err != nil {
		t.Fatalf("FilterRecords: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("filtered %d records, want 2", got.Len())
	}
	pts, err := ResampleMean(got, Daily, dataset.ColPM25)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	if len(pts) != 1 || !pts[0].Period.Equal(time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC)) || pts[0].Mean != 20 {
		t.Fatalf("points = %+v", pts)
	}
	if s := SeriesMarkdown(dataset.ColPM25, Daily, pts); !strings.Contains(s, "2014-03-01") {
		t.Fatalf("markdown missing local date:\n%s", s)
	}
}

func TestResampleMean_EmptyInput(t *testing.T) {
	empty := prsa(t).Subset(nil)
	got, err := ResampleMean(empty, Daily, dataset.ColPM25)
	if err != nil {
		t.Fatalf("ResampleMean: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil series, got %#v", got)
	}
}

func TestResampleMean_MissingColumn(t *testing.T) {
	_, err := ResampleMean(prsa(t), Daily, "PM10")
	var mc *MissingColumnError
	if !errors.As(err, &mc) || mc.Column != "PM10" {
		t.Fatalf("expected MissingColumnError for PM10, got %v", err)
	}
}

func TestPeriodStart(t *testing.T) {
	ts := time.Date(2014, 6, 15, 13, 0, 0, 0, time.UTC) // Sunday
	if got := PeriodStart(ts, Weekly); !got.Equal(day(2014, 6, 9)) {
		t.Fatalf("weekly = %v", got)
	}
	if got := PeriodStart(ts, Monthly); !got.Equal(day(2014, 6, 1)) {
		t.Fatalf("monthly = %v", got)
	}
	if got := PeriodStart(ts, Daily); !got.Equal(day(2014, 6, 15)) {
		t.Fatalf("daily = %v", got)
	}
}
