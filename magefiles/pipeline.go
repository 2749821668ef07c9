//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline runs the CLI stages over the project directories.
type Pipeline mg.Namespace

func binary() string {
	return filepath.Join(binDir, binName)
}

// Convert renders every PDF in papers/ to markdown/.
func (Pipeline) Convert() error {
	mg.Deps(Build, Init)
	pdfs, err := filepath.Glob(filepath.Join("papers", "*.pdf"))
	if err != nil || len(pdfs) == 0 {
		return err
	}
	args := append([]string{"convert", "--out-dir", "markdown"}, pdfs...)
	return sh.RunV(binary(), args...)
}

// Extract writes a digest for every markdown file and stores it.
func (Pipeline) Extract() error {
	mg.Deps(Build, Init)
	return sh.RunV(binary(), "batch", "markdown", "--out-dir", "digests", "--store")
}

// Ingest loads digests/ into the SQLite store.
func (Pipeline) Ingest() error {
	mg.Deps(Build, Init)
	return sh.RunV(binary(), "store", "ingest", "digests")
}

// All converts, then extracts.
func (Pipeline) All() {
	mg.SerialDeps(Pipeline.Convert, Pipeline.Extract)
}
