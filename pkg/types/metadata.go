// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "reflect"

// Metadata is the field mapping a converter reports alongside the markdown
// (title, author, authors, and whatever else the backend knows). Values are
// best-effort and may have any shape; accessors never fail.
type Metadata map[string]any

// AuthorsKind tags the shape of an authors value found in Metadata.
type AuthorsKind int

const (
	// AuthorsAbsent means neither "authors" nor "author" held a usable value.
	AuthorsAbsent AuthorsKind = iota
	// AuthorsSingle is a bare string.
	AuthorsSingle
	// AuthorsList is a list of names.
	AuthorsList
	// AuthorsInvalid is any other shape, such as a number or a map.
	AuthorsInvalid
)

// Authors is the tagged form of the authors metadata value.
type Authors struct {
	Kind   AuthorsKind
	Single string
	List   []string
}

// Normalize returns the author list, never nil.
func (a Authors) Normalize() []string {
	switch a.Kind {
	case AuthorsSingle:
		return []string{a.Single}
	case AuthorsList:
		out := make([]string, len(a.List))
		copy(out, a.List)
		return out
	case AuthorsAbsent, AuthorsInvalid:
		return []string{}
	default:
		return []string{}
	}
}

// Title returns the "title" value when it is a non-empty string.
func (m Metadata) Title() string {
	s, _ := m["title"].(string)
	return s
}

// Authors resolves "authors", falling back to "author" when "authors" is
// missing or empty.
func (m Metadata) Authors() Authors {
	v := m["authors"]
	if isEmptyValue(v) {
		v = m["author"]
	}
	return classifyAuthors(v)
}

func classifyAuthors(v any) Authors {
	if isEmptyValue(v) {
		return Authors{Kind: AuthorsAbsent}
	}
	switch t := v.(type) {
	case string:
		return Authors{Kind: AuthorsSingle, Single: t}
	case []string:
		return Authors{Kind: AuthorsList, List: t}
	case []any:
		names := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				names = append(names, s)
			}
		}
		return Authors{Kind: AuthorsList, List: names}
	default:
		return Authors{Kind: AuthorsInvalid}
	}
}

// isEmptyValue reports whether v counts as "not provided": nil, false, a
// numeric zero of any width, or an empty string, list, or map.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
