// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert <files...>",
	Short: "Convert documents to markdown with YAML frontmatter",
	Long: `Convert renders each document to markdown in --out-dir, keeping the
source path, conversion time, title, and authors in YAML frontmatter.
Existing outputs are skipped. The markdown files can be passed back to
extract, which reads the frontmatter as metadata.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(viper.GetViper())
	router, err := newRouter(cfg.Conversion)
	if err != nil {
		return err
	}

	result := convert.ConvertBatch(cmd.Context(), router, args, cfg.Conversion.OutputDir, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

func init() {
	convertCmd.Flags().String("out-dir", "markdown", "directory for converted markdown")
	convertCmd.Flags().String("backend", "", "PDF backend: docling, markitdown, or none (overrides conversion.backend)")
	viper.BindPFlag("conversion.output_dir", convertCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("conversion.backend", convertCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(convertCmd)
}
