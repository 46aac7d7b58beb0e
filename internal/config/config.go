package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath       string `mapstructure:"data_path" yaml:"data_path"`
	DefaultStation string `mapstructure:"default_station" yaml:"default_station"`
	Granularity    string `mapstructure:"granularity" yaml:"granularity"`
	SearchLimit    int    `mapstructure:"search_limit" yaml:"search_limit"`
	HistogramBins  int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`

	// HTTP server
	HTTPAddr string `mapstructure:"http_addr" yaml:"http_addr"`

	// Logging
	AppEnv   string `mapstructure:"app_env" yaml:"app_env"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Keys lists the settable configuration keys.
var Keys = []string{"data_path", "default_station", "granularity", "search_limit", "histogram_bins", "http_addr", "app_env", "log_level"}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".aqdash"), nil
}

// Path returns cfgFile, or ~/.aqdash/config.yaml when it is empty.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.aqdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Defaults is the configuration used when nothing is set.
func Defaults() *Global {
	return &Global{
		DataPath:       "PRSA_Data_20130301-20170228.csv",
		DefaultStation: "Aotizhongxin",
		Granularity:    "daily",
		SearchLimit:    100,
		HistogramBins:  30,
		HTTPAddr:       ":8080",
		AppEnv:         "dev",
		LogLevel:       "info",
	}
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags override the result.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AQDASH")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("data_path", d.DataPath)
	v.SetDefault("default_station", d.DefaultStation)
	v.SetDefault("granularity", d.Granularity)
	v.SetDefault("search_limit", d.SearchLimit)
	v.SetDefault("histogram_bins", d.HistogramBins)
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("app_env", d.AppEnv)
	v.SetDefault("log_level", d.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// a missing explicit file is fine; config set creates it
		if _, err := os.Stat(cfgFile); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	switch c.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid app_env %q (allowed: dev, prod)", c.AppEnv)
	}
	return &c, nil
}
