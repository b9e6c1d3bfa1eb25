// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package normalize translates record kinds between their wire shape
// (camelCase JSON documents) and their storage shape (snake_case columns
// held in models structs). Each record kind declares one alias table that
// both directions consult.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
)

// Field pairs the wire spelling of a field with its storage spelling.
type Field struct {
	Wire    string
	Storage string
}

// FieldError is a request-level validation failure tied to one field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Payload is a decoded JSON object body. Values stay raw until a typed
// setter reads them, so presence can be told apart from zero values.
type Payload map[string]json.RawMessage

// maxPayloadBytes bounds admin and contact request bodies.
const maxPayloadBytes = 1 << 20

// Decode reads a JSON object from r.
func Decode(r io.Reader) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(io.LimitReader(r, maxPayloadBytes))
	if err := dec.Decode(&p); err != nil {
		return nil, &FieldError{Field: "body", Message: "must be a JSON object"}
	}
	if p == nil {
		return nil, &FieldError{Field: "body", Message: "must be a JSON object"}
	}
	return p, nil
}

// raw returns the value for f, preferring the wire spelling. An explicit
// null under the wire spelling still wins over the storage spelling.
func (p Payload) raw(f Field) (json.RawMessage, bool) {
	if v, ok := p[f.Wire]; ok {
		return v, true
	}
	if f.Storage != f.Wire {
		if v, ok := p[f.Storage]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether either spelling of f is present.
func (p Payload) Has(f Field) bool {
	_, ok := p.raw(f)
	return ok
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func typeError(f Field, want string) error {
	return &FieldError{Field: f.Wire, Message: "must be " + want}
}

// SetString assigns f to dst when present. Null clears the string.
func (p Payload) SetString(f Field, dst *string) error {
	raw, ok := p.raw(f)
	if !ok {
		return nil
	}
	if isNull(raw) {
		*dst = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return typeError(f, "a string")
	}
	*dst = s
	return nil
}

// SetOptString assigns f to dst when present. Null stores nil, so the
// admin form can tell "never set" from "set to empty".
func (p Payload) SetOptString(f Field, dst **string) error {
	raw, ok := p.raw(f)
	if !ok {
		return nil
	}
	if isNull(raw) {
		*dst = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return typeError(f, "a string or null")
	}
	*dst = &s
	return nil
}

// SetInt assigns f to dst when present. Numeric strings are accepted
// because HTML number inputs post their value as text.
func (p Payload) SetInt(f Field, dst *int) error {
	raw, ok := p.raw(f)
	if !ok {
		return nil
	}
	if isNull(raw) {
		*dst = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		*dst = n
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			*dst = n
			return nil
		}
	}
	return typeError(f, "an integer")
}

// SetBool assigns f to dst when present. Null is false.
func (p Payload) SetBool(f Field, dst *bool) error {
	raw, ok := p.raw(f)
	if !ok {
		return nil
	}
	if isNull(raw) {
		*dst = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return typeError(f, "a boolean")
	}
	*dst = b
	return nil
}

// SetTechnologies assigns f to dst when present. Both a JSON array and a
// string holding an encoded array are accepted.
func (p Payload) SetTechnologies(f Field, dst *[]string) error {
	raw, ok := p.raw(f)
	if !ok {
		return nil
	}
	techs, err := DecodeTechnologies(raw)
	if err != nil {
		return typeError(f, "a list of strings")
	}
	*dst = techs
	return nil
}

// UUID reads f as an identifier. The bool is false when f is absent.
func (p Payload) UUID(f Field) (uuid.UUID, bool, error) {
	raw, ok := p.raw(f)
	if !ok || isNull(raw) {
		return uuid.Nil, false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return uuid.Nil, true, typeError(f, "a string id")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, true, &FieldError{Field: f.Wire, Message: fmt.Sprintf("invalid id %q", s)}
	}
	return id, true, nil
}

// RequireUUID is UUID with absence reported as a FieldError.
func (p Payload) RequireUUID(f Field) (uuid.UUID, error) {
	id, ok, err := p.UUID(f)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, &FieldError{Field: f.Wire, Message: "is required"}
	}
	return id, nil
}

// AsFieldError unwraps the first FieldError in err, if any.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
