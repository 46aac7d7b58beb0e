package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var (
	histFlags filterFlags
	histBins  int

	boxplotFlags filterFlags
)

var histCmd = &cobra.Command{
	Use:   "hist",
	Short: "Histogram of a column",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &histFlags, func(p analysis.Params, t *dataset.Table) (any, func() string, error) {
			bins := p.HistogramBins
			if histBins > 0 {
				bins = histBins
			}
			h, err := analysis.HistogramOf(t, histFlags.valueColumn(), bins)
			if err != nil {
				return nil, nil, err
			}
			return h, h.Markdown, nil
		})
	},
}

var boxplotCmd = &cobra.Command{
	Use:   "boxplot",
	Short: "Distribution of a column per month of the year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &boxplotFlags, func(_ analysis.Params, t *dataset.Table) (any, func() string, error) {
			col := boxplotFlags.valueColumn()
			boxes, err := analysis.MonthlyDistribution(t, col)
			if err != nil {
				return nil, nil, err
			}
			return boxes, func() string { return analysis.DistributionMarkdown(col, boxes) }, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(histCmd)
	addFilterFlags(histCmd, &histFlags)
	histCmd.Flags().IntVar(&histBins, "bins", 0, "number of bins (default from config)")

	rootCmd.AddCommand(boxplotCmd)
	addFilterFlags(boxplotCmd, &boxplotFlags)
}
