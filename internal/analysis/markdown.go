package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

func num(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", f)
}

// Markdown renders the describe table as a schema list.
func (d Description) Markdown() string {
	var b strings.Builder
	b.WriteString("[DESCRIPTIVE STATISTICS]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	for _, c := range d.Columns {
		total := c.Count + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (count %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.Count, missPct))
		switch {
		case c.Numeric != nil:
			n := c.Numeric
			b.WriteString(fmt.Sprintf(" — mean %s, std %s, min %s, 25%% %s, 50%% %s, 75%% %s, max %s",
				num(float64(n.Mean)), num(float64(n.Std)), num(float64(n.Min)), num(float64(n.Q25)),
				num(float64(n.Median)), num(float64(n.Q75)), num(float64(n.Max))))
			if n.Outliers > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f (max |z|≈%.2f)", n.Outliers, outlierThreshold, float64(n.MaxAbsZ)))
			}
		case c.Kind == dataset.KindDatetime:
			b.WriteString(fmt.Sprintf(" — unique %d, first %s, last %s", c.Unique, c.First, c.Last))
		case c.Count > 0:
			b.WriteString(fmt.Sprintf(" — unique %d, top %s (%d)", c.Unique, safeVal(c.Top), c.Freq))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SeriesMarkdown renders an aggregated series.
func SeriesMarkdown(column string, g Granularity, pts []Point) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s MEAN %s]\n", strings.ToUpper(string(g)), column))
	if len(pts) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	for _, p := range pts {
		b.WriteString(fmt.Sprintf("- %s: %s (n=%d)\n", p.Period.Format("2006-01-02"), num(p.Mean), p.Count))
	}
	return b.String()
}

// GroupMeansMarkdown renders monthly per-station means, one line per month.
func GroupMeansMarkdown(column string, groups []GroupMean) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[MONTHLY MEAN %s BY STATION]\n", column))
	if len(groups) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	for i := 0; i < len(groups); {
		month := groups[i].Month
		b.WriteString(fmt.Sprintf("- %s:", month))
		for ; i < len(groups) && groups[i].Month == month; i++ {
			b.WriteString(fmt.Sprintf(" %s=%s", groups[i].Station, num(groups[i].Mean)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders the matrix as a table followed by the strongest pairs.
func (m *CorrMatrix) Markdown() string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	b.WriteString("| |")
	for _, c := range m.Columns {
		b.WriteString(" " + safeName(c) + " |")
	}
	b.WriteString("\n|---|")
	for range m.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, row := range m.Values {
		b.WriteString("| " + safeName(m.Columns[i]) + " |")
		for _, v := range row {
			if v.IsNaN() {
				b.WriteString(" NaN |")
			} else {
				b.WriteString(fmt.Sprintf(" %.3f |", float64(v)))
			}
		}
		b.WriteString("\n")
	}
	type pr struct {
		A, B string
		R    float64
	}
	var pairs []pr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			if r := float64(m.Values[i][j]); !math.IsNaN(r) {
				pairs = append(pairs, pr{A: m.Columns[i], B: m.Columns[j], R: r})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}

// Markdown summarises the point cloud.
func (s *Scatter) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[SCATTER %s vs %s]\n", s.X, s.Y))
	b.WriteString(fmt.Sprintf("Points: %d\n", len(s.Points)))
	for i, p := range s.Points {
		if i == 10 {
			b.WriteString(fmt.Sprintf("- ... %d more\n", len(s.Points)-10))
			break
		}
		b.WriteString(fmt.Sprintf("- (%s, %s)\n", num(p.X), num(p.Y)))
	}
	return b.String()
}

// Markdown draws the histogram as text bars.
func (h *Histogram) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[HISTOGRAM %s]\n", h.Column))
	peak := 0
	for _, bin := range h.Bins {
		peak = max(peak, bin.Count)
	}
	for _, bin := range h.Bins {
		bar := 0
		if peak > 0 {
			bar = bin.Count * 40 / peak
		}
		b.WriteString(fmt.Sprintf("- [%s, %s): %d %s\n", num(bin.Lo), num(bin.Hi), bin.Count, strings.Repeat("#", bar)))
	}
	if h.Missing > 0 {
		b.WriteString(fmt.Sprintf("Missing: %d\n", h.Missing))
	}
	return b.String()
}

// DistributionMarkdown renders the per-month boxplot statistics.
func DistributionMarkdown(column string, boxes []BoxStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[DISTRIBUTION %s PER MONTH]\n", column))
	if len(boxes) == 0 {
		b.WriteString("(no data)\n")
		return b.String()
	}
	for _, x := range boxes {
		b.WriteString(fmt.Sprintf("- %02d: n=%d whiskers [%s, %s] Q1 %s median %s Q3 %s outliers %d\n",
			x.Month, x.Count, num(x.LowerWhisker), num(x.UpperWhisker), num(x.Q1), num(x.Median), num(x.Q3), x.Outliers))
	}
	return b.String()
}

// Markdown renders matched rows as a table.
func (s SearchResult) Markdown() string {
	var b strings.Builder
	if s.Query != "" {
		b.WriteString(fmt.Sprintf("[RAW DATA matching %q]\n", s.Query))
	} else {
		b.WriteString("[RAW DATA]\n")
	}
	if len(s.Rows) == 0 {
		b.WriteString("(no matching rows)\n")
		return b.String()
	}
	b.WriteString("| ")
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n| ")
	for i := range s.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range s.Rows {
		b.WriteString("| ")
		for i := range s.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// Markdown renders the headline numbers.
func (in *Insight) Markdown() string {
	var b strings.Builder
	b.WriteString("[INSIGHT]\n")
	b.WriteString(fmt.Sprintf("- Records: %d\n", in.Records))
	b.WriteString(fmt.Sprintf("- Mean %s: %s\n", in.Column, num(float64(in.Mean))))
	if in.PeakDay != nil {
		b.WriteString(fmt.Sprintf("- Highest daily mean: %s on %s\n", num(in.PeakDay.Mean), in.PeakDay.Period.Format("2006-01-02")))
	}
	if c := in.Comparison; c != nil {
		b.WriteString(fmt.Sprintf("- %s averages %s higher than %s (%s vs %s)\n",
			c.Higher, num(c.Difference), c.Lower, num(c.HigherMean), num(c.LowerMean)))
	}
	return b.String()
}

// Markdown renders every view of the dashboard in display order.
func (d *Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("[AIR QUALITY DASHBOARD]\n")
	b.WriteString(fmt.Sprintf("Stations: %s\n", strings.Join(d.Stations, ", ")))
	b.WriteString(fmt.Sprintf("Range: %s to %s\n", d.Start.Format(dateTimeLayout), d.End.Format(dateTimeLayout)))
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", d.Rows))
	column := d.Column
	if d.Insight != nil {
		b.WriteString(d.Insight.Markdown() + "\n")
	}
	b.WriteString(d.Describe.Markdown() + "\n")
	if _, failed := d.Errors["trend"]; !failed {
		b.WriteString(SeriesMarkdown(column, d.Granularity, d.Trend) + "\n")
	}
	if _, failed := d.Errors["distribution"]; !failed {
		b.WriteString(DistributionMarkdown(column, d.Distribution) + "\n")
	}
	if _, failed := d.Errors["monthly"]; !failed {
		b.WriteString(GroupMeansMarkdown(column, d.Monthly) + "\n")
	}
	if d.Correlation != nil {
		b.WriteString(d.Correlation.Markdown() + "\n")
	}
	if d.Scatter != nil {
		b.WriteString(d.Scatter.Markdown() + "\n")
	}
	if d.Histogram != nil {
		b.WriteString(d.Histogram.Markdown() + "\n")
	}
	b.WriteString(d.Search.Markdown())
	if len(d.Errors) > 0 {
		views := make([]string, 0, len(d.Errors))
		for v := range d.Errors {
			views = append(views, v)
		}
		sort.Strings(views)
		b.WriteString("\n[NOTES]\n")
		for _, v := range views {
			b.WriteString(fmt.Sprintf("- %s skipped: %s\n", v, d.Errors[v]))
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
