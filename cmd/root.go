package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/aqdash-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/aqdash-cli/internal/config"
	"github.com/KaramelBytes/aqdash-cli/internal/dataset"
	"github.com/KaramelBytes/aqdash-cli/internal/logging"
)

// version is overridden at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var (
	cfgFile string
	debug   bool
	// Dataset flags (override config if set)
	dataPath   string
	delimiter  string
	decimal    string
	sheetName  string
	sheetIndex int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "aqdash",
	Short:   "aqdash: explore the Beijing multi-site air-quality dataset",
	Long:    `aqdash loads the hourly PRSA air-quality readings once and derives filtered statistics, trends, monthly comparisons, correlations and exports from them, on the command line or over HTTP.`,
	Version: version,
	// errors are printed once by Execute
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.aqdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset path, .csv/.tsv/.xlsx (overrides data_path)")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "", "CSV delimiter: ',' | 'tab' | ';' (default by extension)")
	rootCmd.PersistentFlags().StringVar(&decimal, "decimal", "", "decimal separator: '.' | 'comma'")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet-name", "", "XLSX sheet name")
	rootCmd.PersistentFlags().IntVar(&sheetIndex, "sheet-index", 0, "XLSX sheet index (1-based)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	if debug {
		cfg.LogLevel = "debug"
	}
	l, err := logging.New(cfg, version, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		cfg.LogLevel = "info"
		l, _ = logging.New(cfg, version, os.Stderr)
	}
	logger = l
	slog.SetDefault(logger)
}

// settings returns the loaded config, or defaults when a command runs without
// the cobra initializer (tests that call RunE directly).
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

func datasetOptions() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot", "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	opt.SheetName = sheetName
	if sheetIndex > 0 {
		opt.SheetIndex = sheetIndex
	}
	return opt, nil
}

// openEngine loads the dataset named by --data or data_path. A load failure is
// fatal for the command.
func openEngine() (*analysis.Engine, error) {
	path := dataPath
	if path == "" {
		path = settings().DataPath
	}
	if path == "" {
		return nil, fmt.Errorf("no dataset: pass --data or set data_path")
	}
	opt, err := datasetOptions()
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	log := logger
	if log == nil {
		log = slog.Default()
	}
	log.Debug("dataset loaded", "path", path, "rows", t.Len(), "columns", len(t.Columns), "derived_datetime", t.DerivedTime)
	return analysis.New(t, log), nil
}
