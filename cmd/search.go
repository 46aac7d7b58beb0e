package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var (
	searchFlags filterFlags
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Show raw rows containing text (case-insensitive)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := ""
		if len(args) == 1 {
			text = args[0]
		}
		return runView(cmd, &searchFlags, func(p analysis.Params, t *dataset.Table) (any, func() string, error) {
			limit := p.SearchLimit
			if searchLimit > 0 {
				limit = searchLimit
			}
			res := analysis.NewSearchResult(analysis.SearchRows(t, text, limit), text)
			return res, res.Markdown, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addFilterFlags(searchCmd, &searchFlags)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum rows (default from config)")
}
