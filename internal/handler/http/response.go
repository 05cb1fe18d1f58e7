package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"chemmarket/internal/logger"
	"chemmarket/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps service errors onto status codes. Anything that is not a
// *service.Error is an infrastructure failure: it gets logged and hidden
// behind a generic 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeMessage(w, statusForKind(svcErr.Kind), svcErr.Message)
		return
	}
	logger.Error(ctx, "request failed", slog.String("error", err.Error()))
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return service.Invalid("Invalid request payload")
	}
	return nil
}

// queryInt returns 0 for absent or malformed values so the services fall back
// to their defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
