// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the headline-bench CLI. It builds
// the location dataset, expands headline templates over it and scores
// every headline with several sentiment analyzers.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/headline-bench/internal/logging"
	"github.com/pdiddy/headline-bench/internal/secrets"
	"github.com/pdiddy/headline-bench/internal/sentiment"
	"github.com/pdiddy/headline-bench/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "headline-bench/0.1 (https://github.com/pdiddy/headline-bench)"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Set

// rootCmd is the base command for the headline-bench CLI.
var rootCmd = &cobra.Command{
	Use:   "headline-bench",
	Short: "Measure location bias in headline sentiment analyzers",
	Long: `headline-bench fills headline templates with real world locations and
scores every resulting headline with several sentiment analyzers, so their
verdicts can be compared across regions and development levels.

The workflow is: locations (build locations.json), then score (expand
templates over the locations and write the scored table). The expand
command writes the unscored headlines for inspection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logging.Init(types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		}); err != nil {
			return err
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./headline-bench.yaml or ~/.config/headline-bench/headline-bench.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	setDefaults()
}

func setDefaults() {
	for _, stage := range []string{"dataset", "scoring"} {
		viper.SetDefault(stage+".user_agent", defaultUserAgent)
		viper.SetDefault(stage+".max_retries", 5)
	}
	viper.SetDefault("dataset.timeout", 30*time.Second)
	viper.SetDefault("scoring.timeout", sentiment.DefaultHFTimeout)
	viper.SetDefault("dataset.cities_per_country", 3)
	viper.SetDefault("dataset.summary_sentences", 3)
	viper.SetDefault("dataset.requests_per_second", 2.0)
	viper.SetDefault("dataset.output", "locations.json")
	viper.SetDefault("scoring.scorer_timeout", 10*time.Minute)
	viper.SetDefault("output.path", "sentiment_analysis_results.csv")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("headline-bench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "headline-bench"))
		}
	}

	viper.SetEnvPrefix("HEADLINE_BENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, env and file settings and fills
// credentials from .secrets/ where the config leaves them empty.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Dataset.GeoNamesUsername = loadedSecrets.Or(secrets.GeoNamesUsername, cfg.Dataset.GeoNamesUsername)
	cfg.Scoring.HFToken = loadedSecrets.Or(secrets.HuggingFaceToken, cfg.Scoring.HFToken)
	cfg.Scoring.AnthropicAPIKey = loadedSecrets.Or(secrets.AnthropicAPIKey, cfg.Scoring.AnthropicAPIKey)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
