package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/aqdash-cli/internal/config"
	"github.com/KaramelBytes/aqdash-cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set aqdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_path: %s\n", c.DataPath)
		fmt.Fprintf(out, "default_station: %s\n", c.DefaultStation)
		fmt.Fprintf(out, "granularity: %s\n", c.Granularity)
		fmt.Fprintf(out, "search_limit: %d\n", c.SearchLimit)
		fmt.Fprintf(out, "histogram_bins: %d\n", c.HistogramBins)
		fmt.Fprintf(out, "http_addr: %s\n", c.HTTPAddr)
		fmt.Fprintf(out, "app_env: %s\n", c.AppEnv)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// reload so --debug or a failed load does not leak into the saved file
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			c.DataPath = val
		case "default_station":
			c.DefaultStation = val
		case "granularity":
			g, err := analysis.ParseGranularity(val)
			if err != nil {
				return err
			}
			c.Granularity = string(g)
		case "search_limit":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for search_limit: %v", val)
			}
			c.SearchLimit = i
		case "histogram_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for histogram_bins: %v", val)
			}
			c.HistogramBins = i
		case "http_addr":
			c.HTTPAddr = val
		case "app_env":
			switch val {
			case "dev", "prod":
				c.AppEnv = val
			default:
				return fmt.Errorf("invalid app_env: %s (use dev or prod)", val)
			}
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			c.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s (known: %v)", key, cfgpkg.Keys)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
