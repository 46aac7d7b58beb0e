package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var (
	monthlyFlags filterFlags
	monthlyLabel string
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Mean of a column per month and station",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		label := analysis.MonthLabel(monthlyLabel)
		if label != analysis.YearMonth && label != analysis.MonthOfYear {
			return fmt.Errorf("unsupported --label: %s (use year-month|month-of-year)", monthlyLabel)
		}
		return runView(cmd, &monthlyFlags, func(_ analysis.Params, t *dataset.Table) (any, func() string, error) {
			col := monthlyFlags.valueColumn()
			groups, err := analysis.MonthlyGroupMeans(t, col, label)
			if err != nil {
				return nil, nil, err
			}
			return groups, func() string { return analysis.GroupMeansMarkdown(col, groups) }, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
	addFilterFlags(monthlyCmd, &monthlyFlags)
	monthlyCmd.Flags().StringVar(&monthlyLabel, "label", string(analysis.YearMonth), "month key: year-month|month-of-year")
}
