// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	doclingConvertPath = "/v1/convert/file"
	doclingHealthPath  = "/health"
	doclingStatusOK    = "success"

	// maxErrorBody bounds how much of a failed response is quoted in errors.
	maxErrorBody = 512
)

// DoclingConverter sends documents to a docling-serve instance and reads the
// markdown rendering from its response.
type DoclingConverter struct {
	baseURL string
	apiKey  string
	doOCR   bool
	retrier *httputil.Retrier
}

// doclingResponse is the subset of the docling-serve convert response we use.
type doclingResponse struct {
	Document struct {
		Filename  string `json:"filename"`
		MDContent string `json:"md_content"`
	} `json:"document"`
	Status string `json:"status"`
	Errors []struct {
		ComponentType string `json:"component_type"`
		ModuleName    string `json:"module_name"`
		ErrorMessage  string `json:"error_message"`
	} `json:"errors"`
}

// NewDoclingConverter checks that docling-serve answers its health endpoint
// so that an unreachable service fails before any document is touched.
func NewDoclingConverter(ctx context.Context, client *http.Client, cfg types.DoclingConfig, logger *slog.Logger) (*DoclingConverter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("docling backend requires docling.url (e.g. http://localhost:5001); start one with `docker run -p 5001:5001 quay.io/docling-project/docling-serve`")
	}
	d := &DoclingConverter{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		doOCR:   cfg.DoOCR,
		retrier: &httputil.Retrier{Client: client, MaxRetries: cfg.MaxRetries, Logger: logger},
	}
	if err := d.ping(ctx); err != nil {
		return nil, fmt.Errorf("docling-serve not reachable at %s: %w", d.baseURL, err)
	}
	return d, nil
}

func (d *DoclingConverter) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+doclingHealthPath, nil)
	if err != nil {
		return err
	}
	d.authorize(req)
	resp, err := d.retrier.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Convert uploads the file at path and returns the markdown rendering. The
// metadata carries the filename docling reports.
func (d *DoclingConverter) Convert(ctx context.Context, path string) (Document, error) {
	body, contentType, err := d.buildForm(path)
	if err != nil {
		return Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+doclingConvertPath, bytes.NewReader(body))
	if err != nil {
		return Document{}, fmt.Errorf("building docling request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	d.authorize(req)

	resp, err := d.retrier.Do(ctx, req)
	if err != nil {
		return Document{}, fmt.Errorf("converting %s with docling: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Document{}, fmt.Errorf("converting %s with docling: HTTP %d: %s",
			path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out doclingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Document{}, fmt.Errorf("decoding docling response for %s: %w", path, err)
	}
	if out.Status != doclingStatusOK {
		return Document{}, fmt.Errorf("docling could not convert %s: status %q%s", path, out.Status, formatDoclingErrors(out))
	}

	meta := types.Metadata{}
	if out.Document.Filename != "" {
		meta["filename"] = out.Document.Filename
	}
	return Document{Markdown: out.Document.MDContent, Metadata: meta}, nil
}

func (d *DoclingConverter) authorize(req *http.Request) {
	if d.apiKey != "" {
		req.Header.Set("X-Api-Key", d.apiKey)
	}
}

// buildForm encodes the multipart upload in memory so it can be resent on retry.
func (d *DoclingConverter) buildForm(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	fields := [][2]string{
		{"to_formats", "md"},
		{"do_ocr", strconv.FormatBool(d.doOCR)},
		{"include_images", "false"},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", kv[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func formatDoclingErrors(r doclingResponse) string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.ErrorMessage)
	}
	return ": " + strings.Join(msgs, "; ")
}
