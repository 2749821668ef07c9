// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the digest store (ingest, search, export)",
	Long: `Store keeps digests in a local SQLite database with FTS5 full-text
search over titles, abstracts, introductions, and conclusions.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Load *.digest.json files from a directory into the store",
	Long: `Ingest reads every *.digest.json file in dir and stores it under the
document name. Digests whose content has not changed since the last ingest
are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(cmd.Context(), args[0], cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d digest(s) failed ingest", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var storeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored digests",
	Long: `Search runs an FTS5 query over stored digests, optionally restricted
to an author. Results are ranked by relevance.`,
	RunE: runStoreSearch,
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --author")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []store.Result, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []store.Result{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-45s  %s\n", "Rank", "Source", "Title", "Authors")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-20s  %-45s  %s\n",
			i+1, truncate(r.SourceID, 20), truncate(r.Record.Title, 45), strings.Join(r.Record.Authors, ", "))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored digests to YAML or JSON",
	Long: `Export writes every stored digest (or those matching --query and
--author) to stdout or --output as YAML or JSON.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	opts := queryOptsFromFlags(cmd, args)
	switch format {
	case "yaml", "":
		err = s.ExportYAML(cmd.Context(), w, opts)
	case "json":
		err = s.ExportJSON(cmd.Context(), w, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	}
	return nil
}

// --- shared helpers ---

func openStore() (*store.Store, error) {
	return store.NewStore(pipelineConfig(viper.GetViper()).Store)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	author, _ := cmd.Flags().GetString("author")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Author:     author,
		MaxResults: limit,
	}
}

func init() {
	storeCmd.PersistentFlags().String("db", "", "path of the SQLite store (overrides store.path)")
	viper.BindPFlag("store.path", storeCmd.PersistentFlags().Lookup("db"))

	storeSearchCmd.Flags().String("query", "", "full-text search query")
	storeSearchCmd.Flags().String("author", "", "filter by author (substring, case-insensitive)")
	storeSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use store.max_results)")
	storeSearchCmd.Flags().Bool("json", false, "output results as JSON")

	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("output", "", "file to write (default: stdout)")
	storeExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	storeExportCmd.Flags().String("author", "", "author filter for partial export")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeSearchCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
