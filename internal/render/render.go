// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes API responses. Every handler goes through these
// helpers so the response shape stays uniform across the surface.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Fields carries per-field validation messages when the request body
	// failed validation, keyed by form field name.
	Fields map[string]string `json:"fields,omitempty"`
	// Values echoes the submitted values back so a client can re-populate
	// its form after a validation failure.
	Values map[string]string `json:"values,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// Capture marshals v the way JSON would write it, for callers that cache
// the body before sending it. Marshal errors surface as a logged empty
// object rather than a broken cache entry.
func Capture(v any) []byte {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", "error", err)
		return []byte("{}")
	}
	return body
}

// Error writes a plain error response.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Error: msg})
}

// ValidationError writes a 422 with per-field messages and the submitted
// values echoed back.
func ValidationError(w http.ResponseWriter, fields, values map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:  "validation failed",
		Fields: fields,
		Values: values,
	})
}

// NotFound writes the uniform 404 body.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "not found")
}

// InternalError logs err and writes a generic 500 so internals never leak.
func InternalError(w http.ResponseWriter, err error) {
	slog.Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}
