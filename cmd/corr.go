package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var (
	corrFlags   filterFlags
	corrColumns []string

	scatterFlags filterFlags
	scatterX     string
	scatterY     string
)

var corrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Pairwise Pearson correlations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &corrFlags, func(_ analysis.Params, t *dataset.Table) (any, func() string, error) {
			cols := corrColumns
			if len(cols) == 0 {
				cols = analysis.DefaultCorrelationColumns
			}
			m, err := analysis.CorrelationMatrix(t, cols)
			if err != nil {
				return nil, nil, err
			}
			return m, m.Markdown, nil
		})
	},
}

var scatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Paired values of two numeric columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &scatterFlags, func(_ analysis.Params, t *dataset.Table) (any, func() string, error) {
			s, err := analysis.ScatterPoints(t, scatterX, scatterY)
			if err != nil {
				return nil, nil, err
			}
			return s, s.Markdown, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	addFilterFlags(corrCmd, &corrFlags)
	corrCmd.Flags().StringSliceVar(&corrColumns, "columns", nil, "columns to correlate (default PM2.5,TEMP,DEWP,WSPM)")

	rootCmd.AddCommand(scatterCmd)
	addFilterFlags(scatterCmd, &scatterFlags)
	scatterCmd.Flags().StringVar(&scatterX, "x", "", "x column (default: first numeric column)")
	scatterCmd.Flags().StringVar(&scatterY, "y", "", "y column (default: second numeric column)")
}
