package analysis

import (
	"fmt"
	"reflect"
	"testing"
)

func TestSearchRows_EmptyTextReturnsFirstRows(t *testing.T) {
	tbl := prsa(t)
	if got := SearchRows(tbl, "", 0); got.Len() != 9 {
		t.Fatalf("rows = %d, want all 9", got.Len())
	}

	rows := []string{"year,month,day,hour,PM2.5,station"}
	for i := 0; i < 150; i++ {
		rows = append(rows, fmt.Sprintf("2014,1,%d,%d,%d,Wanliu", i/24+1, i%24, i))
	}
	if got := SearchRows(loadRows(t, rows), "", DefaultSearchLimit); got.Len() != 100 {
		t.Fatalf("rows = %d, want 100", got.Len())
	}
}

func TestSearchRows_WhitespaceIsLiteral(t *testing.T) {
	tbl := prsa(t)
	// The synthesized datetime holds a single space between date and clock.
	if got := SearchRows(tbl, " ", 2); !reflect.DeepEqual(ids(got), []string{"1", "2"}) {
		t.Fatalf("rows = %v", ids(got))
	}
	if got := SearchRows(tbl, "  ", 0); got.Len() != 0 {
		t.Fatalf("double space matched %v", ids(got))
	}
}

func TestSearchRows_CaseInsensitive(t *testing.T) {
	got := SearchRows(prsa(t), "changPING", 0)
	if want := []string{"2", "4", "6", "8"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("rows = %v, want %v", ids(got), want)
	}
	if got := SearchRows(prsa(t), "nnw", 0); !reflect.DeepEqual(ids(got), []string{"1", "3"}) {
		t.Fatalf("rows = %v", ids(got))
	}
}

func TestSearchRows_MatchesSynthesizedDatetime(t *testing.T) {
	got := SearchRows(prsa(t), "2013-04-02", 0)
	if want := []string{"5", "6"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("rows = %v, want %v", ids(got), want)
	}
	if got := SearchRows(prsa(t), "no such text", 0); got.Len() != 0 {
		t.Fatalf("expected no rows, got %d", got.Len())
	}
}

func TestNewSearchResult_AppendsDatetimeColumn(t *testing.T) {
	res := NewSearchResult(SearchRows(prsa(t), "Dongsi", 0), "Dongsi")
	if res.Columns[len(res.Columns)-1] != "datetime" {
		t.Fatalf("columns = %v", res.Columns)
	}
	if len(res.Rows) != 1 || res.Rows[0][len(res.Rows[0])-1] != "2013-05-03 12:00:00" {
		t.Fatalf("rows = %v", res.Rows)
	}
}
