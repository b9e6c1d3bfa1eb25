package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrMalformedTechnologies is returned when stored technologies are neither
// a JSON array of strings nor a JSON string that encodes one.
var ErrMalformedTechnologies = errors.New("malformed technologies")

// DecodeTechnologies reads the technologies column. Rows written by this
// service hold a native array; older rows hold the array serialized into a
// JSON string. Empty and null both decode to an empty list.
func DecodeTechnologies(raw []byte) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}, nil
	}

	switch raw[0] {
	case '[':
		var out []string
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, ErrMalformedTechnologies
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	case '"':
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, ErrMalformedTechnologies
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return []string{}, nil
		}
		// One level of encoding only.
		if !strings.HasPrefix(inner, "[") {
			return nil, ErrMalformedTechnologies
		}
		return DecodeTechnologies([]byte(inner))
	}
	return nil, ErrMalformedTechnologies
}

// EncodeTechnologies produces the storage encoding: a native JSON array.
func EncodeTechnologies(techs []string) []byte {
	if techs == nil {
		techs = []string{}
	}
	b, _ := json.Marshal(techs)
	return b
}

// SplitLines turns a newline-joined field into its list form. Lines are
// trimmed, blank lines dropped, order kept.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Mode selects how absent optional values are emitted.
type Mode int

const (
	// Public substitutes defaults ("" for strings) for absent values.
	Public Mode = iota
	// Admin emits absent values as null.
	Admin
)

// Document is the wire form of a record, keyed by wire spelling.
type Document map[string]any

func (d Document) set(f Field, v any) {
	d[f.Wire] = v
}

func (d Document) opt(f Field, v *string, mode Mode) {
	switch {
	case v != nil:
		d[f.Wire] = *v
	case mode == Public:
		d[f.Wire] = ""
	default:
		d[f.Wire] = nil
	}
}

func (d Document) stamp(f Field, t time.Time) {
	if !t.IsZero() {
		d[f.Wire] = t.UTC().Format(time.RFC3339)
	}
}

// Documents maps a list of records through fn.
func Documents[T any](items []T, mode Mode, fn func(*T, Mode) Document) []Document {
	out := make([]Document, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i], mode))
	}
	return out
}

// Shared alias entries.
var (
	IDField        = Field{"id", "id"}
	createdAtField = Field{"createdAt", "created_at"}
	updatedAtField = Field{"updatedAt", "updated_at"}
)
