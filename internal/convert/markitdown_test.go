// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	imageErr error
	run      func(stdin io.Reader, stdout io.Writer) error
}

func (f *fakeRuntime) Name() string { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }
func (f *fakeRuntime) ImageExists(context.Context, string) error { return f.imageErr }
func (f *fakeRuntime) Run(_ context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	return f.run(stdin, stdout)
}

func TestNewMarkitdownConverter_MissingImage(t *testing.T) {
	_, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in docker")
	assert.Contains(t, err.Error(), "no such image")
}

func TestMarkitdownConverter_Convert(t *testing.T) {
	p := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(p, []byte("pdf bytes"), 0o644))

	rt := &fakeRuntime{run: func(stdin io.Reader, stdout io.Writer) error {
		data, _ := io.ReadAll(stdin)
		_, err := io.WriteString(stdout, "# Converted\n"+strings.ToUpper(string(data)))
		return err
	}}
	m, err := NewMarkitdownConverter(context.Background(), rt)
	require.NoError(t, err)

	doc, err := m.Convert(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "# Converted\nPDF BYTES", doc.Markdown)
	assert.Empty(t, doc.Metadata)
}

func TestMarkitdownConverter_EmptyOutput(t *testing.T) {
	p := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(p, []byte("pdf"), 0o644))

	m, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{run: func(io.Reader, io.Writer) error { return nil }})
	require.NoError(t, err)

	_, err = m.Convert(context.Background(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")
}
