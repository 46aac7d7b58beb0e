package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// MissingColumnError reports a column a view needs but the data lacks.
type MissingColumnError = dataset.MissingColumnError

// InvalidRangeError indicates a malformed or incomplete date range.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range [%s, %s]: %s", orDash(e.Start), orDash(e.End), e.Reason)
}

// EmptyResultError indicates that a filter matched no records.
type EmptyResultError struct {
	Stations []string
	Start    time.Time
	End      time.Time
}

func (e *EmptyResultError) Error() string {
	if len(e.Stations) == 0 {
		return "no data: no station selected"
	}
	return fmt.Sprintf("no data for %s between %s and %s",
		strings.Join(e.Stations, ", "), e.Start.Format(dateTimeLayout), e.End.Format(dateTimeLayout))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
