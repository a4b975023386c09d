// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obeidat/sooqlink/internal/history"
	"github.com/obeidat/sooqlink/internal/resolver"
	"github.com/obeidat/sooqlink/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [query...]",
	Short: "Resolve a free-text query to a filtered category URL",
	Long: `Resolve interprets the query (price and year phrases, Arabic-Indic digits,
an optional city), searches the marketplace through the external search
provider, ranks the returned category pages, and prints the winning URL
with the marketplace's native filter parameters merged in.

Explicit --price-from/--price-to/--year-from/--year-to values take
precedence over values extracted from the query text.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().Int("price-from", 0, "minimum price filter (overrides extracted value)")
	resolveCmd.Flags().Int("price-to", 0, "maximum price filter (overrides extracted value)")
	resolveCmd.Flags().Int("year-from", 0, "minimum model year filter (overrides extracted value)")
	resolveCmd.Flags().Int("year-to", 0, "maximum model year filter (overrides extracted value)")
	resolveCmd.Flags().String("location", "", "city name merged as the city filter")
	resolveCmd.Flags().Int("max-results", 0, "search results to request (default from config)")
	resolveCmd.Flags().Bool("strict", false, "quote the product phrase and add an inurl: hint")
	resolveCmd.Flags().Bool("check-live", false, "probe the winning category URL with a HEAD request")
	resolveCmd.Flags().Bool("json", false, "output the full result as JSON")
	resolveCmd.Flags().String("out", "", "also write the result to this YAML file")
	resolveCmd.Flags().Bool("no-history", false, "do not record this resolution in the history store")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("provide a query, e.g.: sooqlink resolve nissan micra 2010-2014 price 1000-6000")
	}

	cfg := buildConfig()
	if live, _ := cmd.Flags().GetBool("check-live"); live {
		cfg.CheckLiveness = true
	}
	logger := newLogger(cmd)

	r, err := resolver.New(cfg, logger)
	if err != nil {
		return err
	}

	req := resolver.Request{
		Query:     query,
		PriceFrom: intFlag(cmd, "price-from"),
		PriceTo:   intFlag(cmd, "price-to"),
		YearFrom:  intFlag(cmd, "year-from"),
		YearTo:    intFlag(cmd, "year-to"),
	}
	req.Location, _ = cmd.Flags().GetString("location")
	req.Strict, _ = cmd.Flags().GetBool("strict")
	req.MaxResults, _ = cmd.Flags().GetInt("max-results")

	res, resolveErr := r.Resolve(context.Background(), req)

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		recordHistory(cfg, query, res)
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := resolver.WriteResultFile(out, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Result written to %s\n", out)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		// Status serializes as its string name alongside the result fields.
		doc := struct {
			Status string `json:"status"`
			types.ResolutionResult
		}{res.Status.String(), res}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
	} else {
		printResult(res)
	}
	return resolveErr
}

// intFlag returns the flag value as a pointer, nil when the flag was not set.
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

// recordHistory is best-effort: a broken history store warns on stderr but
// never fails the resolution.
func recordHistory(cfg types.ResolverConfig, query string, res types.ResolutionResult) {
	store, err := history.NewStore(cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history store unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), query, res); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record resolution: %v\n", err)
	}
}

func printResult(res types.ResolutionResult) {
	fmt.Printf("Status:   %s\n", res.Status)
	if res.Summary != "" {
		fmt.Printf("Summary:  %s\n", res.Summary)
	}
	if res.CategoryURL != "" {
		fmt.Printf("Category: %s\n", res.CategoryURL)
	}
	if res.FinalURL != "" {
		fmt.Printf("URL:      %s\n", res.FinalURL)
	}
	if res.CategoryAlive != nil {
		fmt.Printf("Alive:    %t\n", *res.CategoryAlive)
	}
}
