package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"deal-desk/repository"
	"deal-desk/service"
)

// DealerHeader carries the dealer id on deal routes.
const DealerHeader = "X-Dealer-ID"

const maxBodyBytes = 1 << 20

var errUnsupportedMediaType = errors.New("Content-Type must be application/json")

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return errUnsupportedMediaType
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDecodeError answers a request whose body could not be read.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnsupportedMediaType) {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	slog.Debug("invalid request body", "error", err)
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// writeError maps engine and repository errors to status codes. Input errors
// are returned verbatim; anything else is logged and hidden.
func writeError(w http.ResponseWriter, err error) {
	var (
		malformed *service.MalformedDealInputsError
		badTerm   *service.InvalidTermError
	)

	switch {
	case errors.As(err, &malformed), errors.As(err, &badTerm), errors.Is(err, service.ErrMissingDealer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrSnapshotNotFound), errors.Is(err, repository.ErrDealerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
