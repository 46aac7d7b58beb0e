package analysis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var prsaRows = []string{
	"No,year,month,day,hour,PM2.5,TEMP,DEWP,WSPM,wd,station",
	"1,2013,3,1,0,10,1.0,-5,2.0,NNW,Aotizhongxin",
	"2,2013,3,1,0,20,2.0,-6,1.5,N,Changping",
	"3,2013,3,1,1,30,3.0,-7,1.0,NNW,Aotizhongxin",
	"4,2013,3,1,1,NA,4.0,-8,0.5,E,Changping",
	"5,2013,4,2,0,40,10.0,0,3.0,NW,Aotizhongxin",
	"6,2013,4,2,0,60,12.0,1,2.5,NW,Changping",
	"7,2013,5,3,12,50,20.0,5,4.0,S,Aotizhongxin",
	"8,2013,5,3,12,70,22.0,6,3.5,SE,Changping",
	"9,2013,5,3,12,100,25.0,7,1.0,S,Dongsi",
}

func loadRows(t *testing.T, rows []string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadCSV(strings.NewReader(strings.Join(rows, "\n")), "test.csv", dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}

func prsa(t *testing.T) *dataset.Table { return loadRows(t, prsaRows) }

func fullRange() DateRange {
	return DateRange{
		Start: time.Date(2013, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2013, 5, 31, 23, 0, 0, 0, time.UTC),
	}
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func almostEqual(a, b float64) bool { return math.Abs(a-b) <= 1e-9*(1+math.Abs(b)) }

func ids(tbl *dataset.Table) []string {
	out := make([]string, 0, tbl.Len())
	for _, r := range tbl.Records {
		out = append(out, r.Cells[0])
	}
	return out
}
