package analysis

import (
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// FilterRecords keeps the records whose station is selected and whose timestamp
// lies in the inclusive range, preserving their order. An invalid range yields an
// InvalidRangeError and an empty result an EmptyResultError.
func FilterRecords(t *dataset.Table, stations []string, r DateRange) (*dataset.Table, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(stations))
	for _, s := range stations {
		want[s] = struct{}{}
	}
	var out []dataset.Record
	for _, rec := range t.Records {
		if _, ok := want[rec.Station]; !ok {
			continue
		}
		if !r.Contains(rec.Time) {
			continue
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, &EmptyResultError{Stations: stations, Start: r.Start, End: r.End}
	}
	return t.Subset(out), nil
}
