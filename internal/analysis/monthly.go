package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// GroupMean is the mean of one (month, station) group.
type GroupMean struct {
	Month   string  `json:"month" yaml:"month"`
	Station string  `json:"station" yaml:"station"`
	Mean    float64 `json:"mean" yaml:"mean"`
	Count   int     `json:"count" yaml:"count"`
}

// MonthKey renders the group label of ts.
func MonthKey(ts time.Time, label MonthLabel) string {
	if label == MonthOfYear {
		return fmt.Sprintf("%02d", int(ts.Month()))
	}
	return ts.Format("2006-01")
}

// MonthlyGroupMeans groups records by month label and station and averages
// column per group. Groups without values produce no entry; consumers must not
// assume every station has every month. Ordered by month, then station.
func MonthlyGroupMeans(t *dataset.Table, column string, label MonthLabel) ([]GroupMean, error) {
	if t.Len() == 0 {
		return []GroupMean{}, nil
	}
	col, err := t.Require(column, "monthly")
	if err != nil {
		return nil, err
	}
	type key struct{ month, station string }
	groups := map[key]*meanAcc{}
	for _, r := range t.Records {
		v := r.Nums[col]
		if math.IsNaN(v) {
			continue
		}
		k := key{MonthKey(r.Time, label), r.Station}
		acc := groups[k]
		if acc == nil {
			acc = &meanAcc{}
			groups[k] = acc
		}
		acc.add(v)
	}
	out := make([]GroupMean, 0, len(groups))
	for k, acc := range groups {
		out = append(out, GroupMean{Month: k.month, Station: k.station, Mean: acc.mean(), Count: acc.n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month == out[j].Month {
			return out[i].Station < out[j].Station
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}
