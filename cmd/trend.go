package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var trendFlags filterFlags

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Mean of a column per day, week or month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &trendFlags, func(p analysis.Params, t *dataset.Table) (any, func() string, error) {
			col := trendFlags.valueColumn()
			pts, err := analysis.ResampleMean(t, p.Granularity, col)
			if err != nil {
				return nil, nil, err
			}
			return pts, func() string { return analysis.SeriesMarkdown(col, p.Granularity, pts) }, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	addFilterFlags(trendCmd, &trendFlags)
}
