// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract digests for every document in a directory",
	Long: `Batch extracts every supported document in dir to <name>.digest.json,
processing several documents at once. Documents whose digest is newer than
the document are skipped. Failures are reported per document and the
command exits non-zero at the end if any failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	toStore, _ := cmd.Flags().GetBool("store")

	cfg := pipelineConfig(viper.GetViper())
	cfg.Extraction.InputDir = args[0]

	router, err := newRouter(cfg.Conversion)
	if err != nil {
		return err
	}

	var sink extract.Sink
	if toStore {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		sink = s
	}

	summary, err := extract.ExtractAll(cmd.Context(), router, cfg.Extraction, sink, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().String("out-dir", "", "directory for digests (default: the input directory)")
	batchCmd.Flags().Int("concurrency", defaultConcurrency, "number of documents processed at once")
	batchCmd.Flags().Bool("store", false, "also save digests in the SQLite store")
	viper.BindPFlag("extraction.output_dir", batchCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("extraction.concurrency", batchCmd.Flags().Lookup("concurrency"))

	rootCmd.AddCommand(batchCmd)
}
