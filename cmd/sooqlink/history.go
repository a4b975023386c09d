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
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past resolutions from the local history store",
	Long: `History prints the most recent resolutions recorded by the resolve
command, newest first. Use --query to re-print the last successful
resolution for an exact query without running a new search.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum entries to list")
	historyCmd.Flags().String("query", "", "print the last successful resolution for this exact query")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	if query, _ := cmd.Flags().GetString("query"); query != "" {
		entry, ok, err := store.Lookup(context.Background(), query)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no successful resolution stored for %q", query)
		}
		if jsonOutput {
			return printJSON([]history.Entry{entry})
		}
		fmt.Println(entry.FinalURL)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No resolutions recorded yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-10s  %-40s  %s\n", "When", "Status", "Query", "URL")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range entries {
		query := e.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		url := e.FinalURL
		if url == "" {
			url = e.CategoryURL
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-10s  %-40s  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Status, query, url)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
