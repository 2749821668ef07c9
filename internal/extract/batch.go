// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-digest/internal/convert"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	// OutputSuffix replaces a document's extension in batch output names.
	OutputSuffix = ".digest.json"

	defaultConcurrency = 4
)

// Sink receives every record a run produces, e.g. the digest store.
type Sink interface {
	Save(ctx context.Context, source string, rec types.Record) error
}

// Source is what batch extraction needs from a converter: a way to convert
// and a filter for the files it can handle. convert.Router satisfies it.
type Source interface {
	convert.Converter
	Supports(path string) bool
}

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractDocument converts the document at inputPath, extracts its Record,
// and writes it to outputPath. A conversion failure is returned unchanged in
// meaning and no output file is written.
func ExtractDocument(ctx context.Context, c convert.Converter, inputPath, outputPath string) (types.Record, error) {
	doc, err := c.Convert(ctx, inputPath)
	if err != nil {
		return types.Record{}, fmt.Errorf("converting %s: %w", inputPath, err)
	}

	rec := Extract(doc.Markdown, doc.Metadata)
	if err := WriteRecord(outputPath, rec); err != nil {
		return types.Record{}, err
	}
	return rec, nil
}

// OutputPath returns the batch output path for inputPath: the base name with
// its extension replaced by OutputSuffix, placed in outDir.
func OutputPath(inputPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(outDir, base+OutputSuffix)
}

// ExtractAll extracts every supported document in cfg.InputDir, running up to
// cfg.Concurrency documents at once. Documents whose output is newer than the
// input are skipped. Per-document failures are counted and reported on w; the
// returned error covers only setup problems. sink may be nil.
func ExtractAll(ctx context.Context, src Source, cfg types.ExtractionConfig, sink Sink, w io.Writer) (BatchSummary, error) {
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = cfg.InputDir
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	inputs, err := listInputs(cfg.InputDir, src)
	if err != nil {
		return BatchSummary{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	var (
		mu      sync.Mutex
		summary BatchSummary
	)
	report := func(outcome *int, format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		*outcome++
		fmt.Fprintf(w, format, args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, in := range inputs {
		g.Go(func() error {
			name := filepath.Base(in)
			out := OutputPath(in, outDir)

			changed, err := hasChanged(in, out)
			if err != nil {
				report(&summary.Failed, "failed    %s: %v\n", name, err)
				return nil
			}
			if !changed {
				report(&summary.Skipped, "skipped   %s\n", name)
				return nil
			}

			rec, err := ExtractDocument(gctx, src, in, out)
			if err != nil {
				report(&summary.Failed, "failed    %s: %v\n", name, err)
				return nil
			}
			if sink != nil {
				if err := sink.Save(gctx, in, rec); err != nil {
					report(&summary.Failed, "failed    %s: store: %v\n", name, err)
					return nil
				}
			}
			report(&summary.Extracted, "extracted %s (%d sections)\n", name, len(rec.Sections))
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(w, "\nextracted: %d, skipped: %d, failed: %d (total: %d)\n",
		summary.Extracted, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

// listInputs returns the supported files directly inside dir, sorted.
func listInputs(dir string, src Source) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if src.Supports(path) {
			inputs = append(inputs, path)
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}

// hasChanged reports whether the input is newer than its output. It returns
// true when the output does not exist.
func hasChanged(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, fmt.Errorf("stat input %s: %w", inPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return inInfo.ModTime().After(outInfo.ModTime()), nil
}
