// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"portfolio/internal/middleware"
	"portfolio/internal/normalize"
)

type fieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldErrors flattens a joined error into its field-level messages.
func fieldErrors(err error) []fieldMessage {
	var out []fieldMessage
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		if fe, ok := normalize.AsFieldError(e); ok {
			out = append(out, fieldMessage{Field: fe.Field, Message: fe.Message})
		}
	}
	walk(err)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	middleware.WriteJSON(w, status, v)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// invalid answers a request that failed field validation.
func invalid(w http.ResponseWriter, err error) {
	writeInvalid(w, fieldErrors(err))
}

func writeInvalid(w http.ResponseWriter, details []fieldMessage) {
	msg := "Validation failed"
	if len(details) > 0 {
		msg = details[0].Field + " " + details[0].Message
	}
	middleware.WriteError(w, http.StatusBadRequest, "validation_failed", msg, details)
}

func badRequest(w http.ResponseWriter, msg string) {
	middleware.WriteError(w, http.StatusBadRequest, "bad_request", msg, nil)
}

func notFound(w http.ResponseWriter, what string) {
	middleware.WriteError(w, http.StatusNotFound, "not_found", what+" not found", nil)
}

// storeFailed logs a collaborator failure and passes its text to the
// operator.
func storeFailed(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	middleware.WriteError(w, http.StatusInternalServerError, "store_error", msg, err.Error())
}

// queryID reads the required ?id= parameter of a delete.
func queryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		badRequest(w, "ID is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "ID is not a valid identifier")
		return uuid.Nil, false
	}
	return id, true
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// decode reads the JSON body, answering 413 when it is too large and 400
// when it is not an object.
func decode(w http.ResponseWriter, r *http.Request) (normalize.Payload, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", nil)
			return nil, false
		}
		badRequest(w, "Could not read request body")
		return nil, false
	}
	p, err := normalize.Decode(bytes.NewReader(body))
	if err != nil {
		invalid(w, err)
		return nil, false
	}
	return p, true
}
