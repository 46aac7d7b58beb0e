package analysis

import (
	"math"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// BoxStats summarises the distribution of one month-of-year.
type BoxStats struct {
	Month        int     `json:"month" yaml:"month"`
	Count        int     `json:"count" yaml:"count"`
	Q1           float64 `json:"q1" yaml:"q1"`
	Median       float64 `json:"median" yaml:"median"`
	Q3           float64 `json:"q3" yaml:"q3"`
	LowerWhisker float64 `json:"lower_whisker" yaml:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker" yaml:"upper_whisker"`
	Outliers     int     `json:"outliers" yaml:"outliers"`
}

// MonthlyDistribution computes boxplot statistics of column per month-of-year.
// Whiskers reach the most extreme values within 1.5 IQR of the quartiles.
func MonthlyDistribution(t *dataset.Table, column string) ([]BoxStats, error) {
	col, err := t.Require(column, "distribution")
	if err != nil {
		return nil, err
	}
	var byMonth [12][]float64
	for _, r := range t.Records {
		if v := r.Nums[col]; !math.IsNaN(v) {
			m := int(r.Time.Month()) - 1
			byMonth[m] = append(byMonth[m], v)
		}
	}
	out := []BoxStats{}
	for m, vals := range byMonth {
		if len(vals) == 0 {
			continue
		}
		sorted := sortedCopy(vals)
		b := BoxStats{
			Month:  m + 1,
			Count:  len(sorted),
			Q1:     quantile(sorted, 0.25),
			Median: quantile(sorted, 0.5),
			Q3:     quantile(sorted, 0.75),
		}
		iqr := b.Q3 - b.Q1
		loFence, hiFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
		b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
		for _, v := range sorted {
			if v < loFence || v > hiFence {
				b.Outliers++
				continue
			}
			b.LowerWhisker = min(b.LowerWhisker, v)
			b.UpperWhisker = max(b.UpperWhisker, v)
		}
		out = append(out, b)
	}
	return out, nil
}
