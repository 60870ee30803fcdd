package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"log/slog"
)

const maxRequestBodyBytes = 1 << 20

// writeJSON serializes the payload with a JSON content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeError writes a JSON error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeErrorDetails writes a JSON error envelope with a machine-readable
// details code alongside the human-readable message.
func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, map[string]any{"error": message, "details": details})
}

// decodeJSONBody parses the request body into dst, rejecting unknown fields
// and oversized payloads. It writes the error response itself and returns a
// non-nil error when the caller should stop.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is required")
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		}
		return err
	}

	// A second decode succeeding means trailing garbage after the object.
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		err = errors.New("request body must contain a single JSON object")
		writeError(w, http.StatusBadRequest, err.Error())
		return err
	}
	return nil
}
