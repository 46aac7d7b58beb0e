package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
	"github.com/KaramelBytes/aqdash-cli/internal/utils"
)

// filterFlags are the sidebar controls shared by every view command.
type filterFlags struct {
	stations    []string
	start       string
	end         string
	granularity string
	column      string
	format      string
}

func addFilterFlags(c *cobra.Command, f *filterFlags) {
	c.Flags().StringSliceVarP(&f.stations, "station", "s", nil, "station to include (repeatable; default from config)")
	c.Flags().StringVar(&f.start, "start", "", "range start, YYYY-MM-DD[ HH:MM[:SS]] (default: first reading)")
	c.Flags().StringVar(&f.end, "end", "", "range end, inclusive; a bare date covers the whole day (default: last reading)")
	c.Flags().StringVar(&f.granularity, "granularity", "", "trend bucket: daily|weekly|monthly (default from config)")
	c.Flags().StringVar(&f.column, "column", "", "value column (default PM2.5)")
	c.Flags().StringVar(&f.format, "format", "markdown", "output format: markdown|json|yaml")
}

// params resolves the flags against the engine and configuration.
func (f *filterFlags) params(e *analysis.Engine) (analysis.Params, error) {
	s := settings()
	p := analysis.Params{
		Stations:      f.stations,
		ValueColumn:   f.column,
		SearchLimit:   s.SearchLimit,
		HistogramBins: s.HistogramBins,
		MonthLabel:    analysis.YearMonth,
	}
	if len(p.Stations) == 0 && s.DefaultStation != "" {
		p.Stations = []string{s.DefaultStation}
	}
	g := f.granularity
	if g == "" {
		g = s.Granularity
	}
	var err error
	if p.Granularity, err = analysis.ParseGranularity(g); err != nil {
		return p, err
	}
	if p.Range, err = e.ResolveRange(f.start, f.end); err != nil {
		return p, err
	}
	return p, nil
}

func (f *filterFlags) valueColumn() string {
	if f.column == "" {
		return dataset.ColPM25
	}
	return f.column
}

// render writes v in the chosen format; markdown uses md.
func render(w io.Writer, format string, v any, md func() string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		_, err := io.WriteString(w, md())
		return err
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml", "yml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
	}
}

// viewFunc computes one view over the filtered records.
type viewFunc func(p analysis.Params, t *dataset.Table) (v any, md func() string, err error)

// runView loads the data, filters it and renders one view.
func runView(c *cobra.Command, f *filterFlags, fn viewFunc) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	p, err := f.params(e)
	if err != nil {
		return err
	}
	t, err := e.Filter(p)
	if err != nil {
		return err
	}
	v, md, err := fn(p, t)
	if err != nil {
		return err
	}
	return render(c.OutOrStdout(), f.format, v, md)
}
