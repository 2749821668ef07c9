// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/paper-digest/internal/container"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// ImageMarkitdown is the container image the markitdown backend runs.
const ImageMarkitdown = "markitdown:latest"

// MarkitdownConverter pipes documents through the markitdown container image.
// markitdown reports no metadata, so Document.Metadata is always empty.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter verifies that the markitdown image exists in rt so
// that a missing dependency fails before any document is touched.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, ImageMarkitdown); err != nil {
		return nil, fmt.Errorf(
			"markitdown image not available in %s (build it with `%s build -t %s` from the markitdown repository): %w",
			rt.Name(), rt.Name(), ImageMarkitdown, err,
		)
	}
	return &MarkitdownConverter{runtime: rt, image: ImageMarkitdown}, nil
}

// Convert streams the file at path through the container.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, f, &out); err != nil {
		return Document{}, fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if out.Len() == 0 {
		return Document{}, fmt.Errorf("markitdown produced empty output for %s", path)
	}

	return Document{Markdown: out.String(), Metadata: types.Metadata{}}, nil
}
