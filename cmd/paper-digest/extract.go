// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a structured digest from one document",
	Long: `Extract converts a document to markdown, segments it by headings, and
writes a JSON digest with the title, authors, abstract, introduction,
conclusion, a per-section index, and the first 200 lines of markdown.

Markdown files are read directly (YAML frontmatter becomes metadata), HTML
pages are converted in-process, and PDFs go through conversion.backend.
If conversion fails nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	toStore, _ := cmd.Flags().GetBool("store")

	cfg := pipelineConfig(viper.GetViper())
	router, err := newRouter(cfg.Conversion)
	if err != nil {
		return err
	}

	rec, err := extract.ExtractDocument(cmd.Context(), router, input, output)
	if err != nil {
		return err
	}

	if toStore {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Save(cmd.Context(), input, rec); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extraction saved to %s\n", output)
	return nil
}

func init() {
	extractCmd.Flags().String("input", "", "document to extract (PDF, HTML, or markdown)")
	extractCmd.Flags().String("output", "", "path of the JSON digest to write")
	extractCmd.Flags().Bool("store", false, "also save the digest in the SQLite store")
	extractCmd.MarkFlagRequired("input")
	extractCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(extractCmd)
}
