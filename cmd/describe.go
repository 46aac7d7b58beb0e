package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var describeFlags filterFlags

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Descriptive statistics of the filtered records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, &describeFlags, func(_ analysis.Params, t *dataset.Table) (any, func() string, error) {
			d := analysis.Describe(t)
			return d, d.Markdown, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addFilterFlags(describeCmd, &describeFlags)
}
