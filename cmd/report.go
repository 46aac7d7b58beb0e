package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
	"github.com/KaramelBytes/aqdash-cli/internal/utils"
)

var (
	reportFlags  filterFlags
	reportQuery  string
	reportOutput string
	reportX      string
	reportY      string

	insightFlags filterFlags
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render every dashboard view for one selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		p, err := reportFlags.params(e)
		if err != nil {
			return err
		}
		p.SearchText = reportQuery
		p.XColumn, p.YColumn = reportX, reportY
		d, err := e.Dashboard(p)
		if err != nil {
			return err
		}
		if reportOutput == "" {
			return render(cmd.OutOrStdout(), reportFlags.format, d, d.Markdown)
		}
		var buf bytes.Buffer
		if err := render(&buf, reportFlags.format, d, d.Markdown); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(reportOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", reportOutput)
		return nil
	},
}

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Headline numbers, with a comparison when two stations are selected",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &insightFlags, func(p analysis.Params, t *dataset.Table) (any, func() string, error) {
			in, err := analysis.InsightOf(t, p.Stations, insightFlags.valueColumn())
			if err != nil {
				return nil, nil, err
			}
			return in, in.Markdown, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addFilterFlags(reportCmd, &reportFlags)
	reportCmd.Flags().StringVarP(&reportQuery, "query", "q", "", "filter the raw-data table to rows containing this text")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")
	reportCmd.Flags().StringVar(&reportX, "x", dataset.ColTemp, "scatter x column")
	reportCmd.Flags().StringVar(&reportY, "y", dataset.ColPM25, "scatter y column")

	rootCmd.AddCommand(insightCmd)
	addFilterFlags(insightCmd, &insightFlags)
}
