// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sooqlink CLI: it interprets
// free-text marketplace queries and resolves them to filtered OpenSooq
// category URLs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obeidat/sooqlink/internal/secrets"
	"github.com/obeidat/sooqlink/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the sooqlink CLI.
var rootCmd = &cobra.Command{
	Use:   "sooqlink",
	Short: "Resolve free-text queries to filtered OpenSooq category URLs",
	Long: `sooqlink interprets a buyer's free-text query (Arabic or English digits,
price and year phrases, city names) and resolves it to the OpenSooq category
page that best matches, with the marketplace's native filter parameters
merged onto the URL.

The pipeline runs one external search per resolution and needs a search
provider API key: set SOOQLINK_SEARCH_API_KEY or place it in
.secrets/tavily-api-key.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; it is a convenience, not a requirement.
		_ = godotenv.Load()

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sooqlink.yaml or ~/.config/sooqlink/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sooqlink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sooqlink"))
		}
	}

	viper.SetEnvPrefix("SOOQLINK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the resolver configuration from defaults, the
// config file, environment variables, and loaded secrets, in that order.
func buildConfig() types.ResolverConfig {
	cfg := types.DefaultConfig()

	if v := viper.GetString("search_api_key"); v != "" {
		cfg.Search.APIKey = v
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = loadedSecrets[secrets.TavilyAPIKey]
	}

	if v := viper.GetString("domain"); v != "" {
		cfg.Market.Domain = v
		cfg.Search.AllowedDomains = []string{v}
	}
	if v := viper.GetInt("max_results"); v > 0 {
		cfg.Search.MaxResults = v
	}
	if v := viper.GetInt("price_tolerance_pct"); v > 0 {
		cfg.Market.SinglePriceTolerancePct = v
	}
	if v := viper.GetString("history_dir"); v != "" {
		cfg.History.Dir = v
	}
	if v := viper.GetString("rules_file"); v != "" {
		cfg.RulesFile = v
	}
	return cfg
}

// newLogger builds the CLI's console logger; --verbose lowers the level
// to debug.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
