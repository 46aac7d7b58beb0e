package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	"github.com/KaramelBytes/aqdash-cli/internal/utils"
)

var (
	exportFlags    filterFlags
	exportOutput   string
	exportDatetime bool
	exportMonth    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered records to CSV or XLSX",
	Long:  `Writes the filtered records with their original columns. The file type follows the --output extension; the default name is data_<station>.csv.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine()
		if err != nil {
			return err
		}
		p, err := exportFlags.params(e)
		if err != nil {
			return err
		}
		t, err := e.Filter(p)
		if err != nil {
			return err
		}
		out := exportOutput
		if out == "" {
			out = utils.ExportFileName(p.Stations, "csv")
		}
		opt := analysis.ExportOptions{IncludeDatetime: exportDatetime, IncludeMonth: exportMonth}
		var b []byte
		switch strings.ToLower(filepath.Ext(out)) {
		case ".xlsx":
			b, err = analysis.ToXLSX(t, opt)
		case ".csv", "":
			b, err = analysis.ToCSV(t, opt)
		default:
			return fmt.Errorf("unsupported export type %q (use .csv or .xlsx)", filepath.Ext(out))
		}
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(out, b); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s\n", t.Len(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd, &exportFlags)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, .csv or .xlsx (default data_<station>.csv)")
	exportCmd.Flags().BoolVar(&exportDatetime, "with-datetime", false, "append the synthesized datetime column")
	exportCmd.Flags().BoolVar(&exportMonth, "with-month", false, "append a month column when the data has none")
}
