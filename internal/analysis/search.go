package analysis

import (
	"strings"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// SearchRows returns, in order, the first limit records having a cell that
// contains text, ignoring case. Whitespace is matched literally; only empty text
// returns the first limit records unfiltered.
func SearchRows(t *dataset.Table, text string, limit int) *dataset.Table {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(text)
	out := make([]dataset.Record, 0, min(limit, t.Len()))
	for _, r := range t.Records {
		if len(out) >= limit {
			break
		}
		if needle == "" || rowContains(t.Text(r), needle) {
			out = append(out, r)
		}
	}
	return t.Subset(out)
}

func rowContains(cells []string, needle string) bool {
	for _, c := range cells {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

// SearchResult is a display-ready slice of raw rows.
type SearchResult struct {
	Query   string     `json:"query" yaml:"query"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// NewSearchResult renders matched records as header and text rows.
func NewSearchResult(t *dataset.Table, query string) SearchResult {
	cols := t.Columns
	if t.DerivedTime {
		cols = append(append([]string(nil), cols...), dataset.ColDatetime)
	}
	res := SearchResult{Query: query, Columns: cols, Rows: make([][]string, 0, t.Len())}
	for _, r := range t.Records {
		res.Rows = append(res.Rows, t.Text(r))
	}
	return res
}
