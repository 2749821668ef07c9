// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataAuthors(t *testing.T) {
	tests := []struct {
		name     string
		meta     Metadata
		wantKind AuthorsKind
		want     []string
	}{
		{
			name:     "missing keys",
			meta:     Metadata{},
			wantKind: AuthorsAbsent,
			want:     []string{},
		},
		{
			name:     "single author string",
			meta:     Metadata{"author": "Jane Doe"},
			wantKind: AuthorsSingle,
			want:     []string{"Jane Doe"},
		},
		{
			name:     "authors list of any",
			meta:     Metadata{"authors": []any{"A. One", "B. Two"}},
			wantKind: AuthorsList,
			want:     []string{"A. One", "B. Two"},
		},
		{
			name:     "authors string slice",
			meta:     Metadata{"authors": []string{"A. One"}},
			wantKind: AuthorsList,
			want:     []string{"A. One"},
		},
		{
			name:     "authors wins over author",
			meta:     Metadata{"authors": []any{"A"}, "author": "B"},
			wantKind: AuthorsList,
			want:     []string{"A"},
		},
		{
			name:     "empty authors falls back to author",
			meta:     Metadata{"authors": []any{}, "author": "B"},
			wantKind: AuthorsSingle,
			want:     []string{"B"},
		},
		{
			name:     "empty string falls back to author",
			meta:     Metadata{"authors": "", "author": []any{"C"}},
			wantKind: AuthorsList,
			want:     []string{"C"},
		},
		{
			name:     "number is invalid",
			meta:     Metadata{"authors": 42},
			wantKind: AuthorsInvalid,
			want:     []string{},
		},
		{
			name:     "number does not fall back",
			meta:     Metadata{"authors": 42, "author": "Jane Doe"},
			wantKind: AuthorsInvalid,
			want:     []string{},
		},
		{
			name:     "int32 zero falls back",
			meta:     Metadata{"authors": int32(0), "author": "X"},
			wantKind: AuthorsSingle,
			want:     []string{"X"},
		},
		{
			name:     "uint zero falls back",
			meta:     Metadata{"authors": uint8(0), "author": "X"},
			wantKind: AuthorsSingle,
			want:     []string{"X"},
		},
		{
			name:     "float32 zero falls back",
			meta:     Metadata{"authors": float32(0), "author": "X"},
			wantKind: AuthorsSingle,
			want:     []string{"X"},
		},
		{
			name:     "empty yaml.v2 map falls back",
			meta:     Metadata{"authors": map[any]any{}, "author": "X"},
			wantKind: AuthorsSingle,
			want:     []string{"X"},
		},
		{
			name:     "false falls back",
			meta:     Metadata{"authors": false, "author": "X"},
			wantKind: AuthorsSingle,
			want:     []string{"X"},
		},
		{
			name:     "non-empty yaml.v2 map is invalid",
			meta:     Metadata{"authors": map[any]any{"name": "X"}, "author": "Y"},
			wantKind: AuthorsInvalid,
			want:     []string{},
		},
		{
			name:     "map is invalid",
			meta:     Metadata{"authors": map[string]any{"name": "X"}},
			wantKind: AuthorsInvalid,
			want:     []string{},
		},
		{
			name:     "non-string list elements skipped",
			meta:     Metadata{"authors": []any{"A", 7, nil, "B"}},
			wantKind: AuthorsList,
			want:     []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.meta.Authors()
			assert.Equal(t, tt.wantKind, got.Kind)
			normalized := got.Normalize()
			assert.NotNil(t, normalized)
			assert.Equal(t, tt.want, normalized)
		})
	}
}

func TestMetadataTitle(t *testing.T) {
	assert.Equal(t, "A Paper", Metadata{"title": "A Paper"}.Title())
	assert.Equal(t, "", Metadata{}.Title())
	assert.Equal(t, "", Metadata{"title": 12}.Title())
	assert.Equal(t, "", Metadata(nil).Title())
}

func TestAuthorsNormalizeCopies(t *testing.T) {
	src := []string{"A"}
	a := Authors{Kind: AuthorsList, List: src}
	out := a.Normalize()
	out[0] = "changed"
	assert.Equal(t, "A", src[0])
}
