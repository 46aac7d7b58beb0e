package analysis

import (
	"math"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

// ScatterPoint is one (x, y) observation.
type ScatterPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Scatter is the point cloud of two numeric columns.
type Scatter struct {
	X      string         `json:"x" yaml:"x"`
	Y      string         `json:"y" yaml:"y"`
	Points []ScatterPoint `json:"points" yaml:"points"`
}

// ScatterPoints pairs x and y over rows where both are present. Empty names
// default to the first and second numeric columns.
func ScatterPoints(t *dataset.Table, x, y string) (*Scatter, error) {
	nums := t.NumericColumns()
	if x == "" {
		if len(nums) < 1 {
			return nil, &MissingColumnError{Column: "x (numeric)", View: "scatter"}
		}
		x = nums[0]
	}
	if y == "" {
		if len(nums) < 2 {
			return nil, &MissingColumnError{Column: "y (numeric)", View: "scatter"}
		}
		y = nums[1]
	}
	cx, err := t.Require(x, "scatter")
	if err != nil {
		return nil, err
	}
	cy, err := t.Require(y, "scatter")
	if err != nil {
		return nil, err
	}
	s := &Scatter{X: t.Columns[cx], Y: t.Columns[cy], Points: []ScatterPoint{}}
	for _, r := range t.Records {
		vx, vy := r.Nums[cx], r.Nums[cy]
		if math.IsNaN(vx) || math.IsNaN(vy) {
			continue
		}
		s.Points = append(s.Points, ScatterPoint{X: vx, Y: vy})
	}
	return s, nil
}
