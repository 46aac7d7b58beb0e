package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
)

var stationsFormat string

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List monitoring stations and the time span of the data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		type listing struct {
			Stations []string `json:"stations" yaml:"stations"`
			Start    string   `json:"start,omitempty" yaml:"start,omitempty"`
			End      string   `json:"end,omitempty" yaml:"end,omitempty"`
			Rows     int      `json:"rows" yaml:"rows"`
		}
		out := listing{Stations: e.Stations(), Rows: e.Data().Len()}
		if b, ok := e.Bounds(); ok {
			out.Start = b.Start.Format(dataset.DatetimeLayout)
			out.End = b.End.Format(dataset.DatetimeLayout)
		}
		return render(cmd.OutOrStdout(), stationsFormat, out, func() string {
			var b strings.Builder
			b.WriteString("[STATIONS]\n")
			for _, s := range out.Stations {
				b.WriteString("- " + s + "\n")
			}
			b.WriteString(fmt.Sprintf("Rows: %d\n", out.Rows))
			if out.Start != "" {
				b.WriteString(fmt.Sprintf("Span: %s to %s\n", out.Start, out.End))
			}
			return b.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(stationsCmd)
	stationsCmd.Flags().StringVar(&stationsFormat, "format", "markdown", "output format: markdown|json|yaml")
}
