// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files. The
// filename is the key and the trimmed file contents are the value.
//
// Recognized keys: docling-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DoclingAPIKey authenticates against a docling-serve instance.
const DoclingAPIKey = "docling-api-key"

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key, or "" when it is not set.
func (s Secrets) Get(key string) string {
	return s[key]
}

// Keys returns the loaded key names in sorted order.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error. Unreadable or empty files are skipped; unreadable ones are
// reported to logger when it is non-nil.
func Load(dir string, logger *slog.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if logger != nil {
				logger.Warn("could not read secret", "key", name, "error", err)
			}
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}

	return out, nil
}
