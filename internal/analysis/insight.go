package analysis

import (
	"math"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// Comparison contrasts the mean level of two stations.
type Comparison struct {
	Higher     string  `json:"higher" yaml:"higher"`
	Lower      string  `json:"lower" yaml:"lower"`
	HigherMean float64 `json:"higher_mean" yaml:"higher_mean"`
	LowerMean  float64 `json:"lower_mean" yaml:"lower_mean"`
	Difference float64 `json:"difference" yaml:"difference"`
}

// Insight holds the headline numbers shown above the charts.
type Insight struct {
	Column  string `json:"column" yaml:"column"`
	Records int    `json:"records" yaml:"records"`
	Mean    Float  `json:"mean" yaml:"mean"`
	// PeakDay is the calendar day with the highest daily mean.
	PeakDay    *Point      `json:"peak_day,omitempty" yaml:"peak_day,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// InsightOf summarises column over t. When exactly two stations are selected
// and both have values, it also reports which one is higher on average.
func InsightOf(t *dataset.Table, selection []string, column string) (*Insight, error) {
	col, err := t.Require(column, "insight")
	if err != nil {
		return nil, err
	}
	in := &Insight{Column: t.Columns[col], Records: t.Len(), Mean: nan}
	perStation := map[string]*meanAcc{}
	total := &meanAcc{}
	for _, r := range t.Records {
		v := r.Nums[col]
		if math.IsNaN(v) {
			continue
		}
		total.add(v)
		acc := perStation[r.Station]
		if acc == nil {
			acc = &meanAcc{}
			perStation[r.Station] = acc
		}
		acc.add(v)
	}
	if total.n > 0 {
		in.Mean = Float(total.mean())
	}
	daily, err := ResampleMean(t, Daily, column)
	if err != nil {
		return nil, err
	}
	for i := range daily {
		if in.PeakDay == nil || daily[i].Mean > in.PeakDay.Mean {
			p := daily[i]
			in.PeakDay = &p
		}
	}
	if len(selection) == 2 {
		a, b := perStation[selection[0]], perStation[selection[1]]
		if a != nil && b != nil {
			c := &Comparison{Higher: selection[0], Lower: selection[1], HigherMean: a.mean(), LowerMean: b.mean()}
			if b.mean() > a.mean() {
				c.Higher, c.Lower = selection[1], selection[0]
				c.HigherMean, c.LowerMean = b.mean(), a.mean()
			}
			c.Difference = c.HigherMean - c.LowerMean
			in.Comparison = c
		}
	}
	return in, nil
}
