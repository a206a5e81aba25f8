package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
)

// IdempotencyKeyHeader carries the client request id for mutations.
const IdempotencyKeyHeader = "Idempotency-Key"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it. Server-side failures
// are logged and their details withheld from the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
		details := ""
		if errors.Is(err, domain.ErrIntegrity) {
			details = err.Error()
		}
		writeError(w, status, message, details)
		return
	}
	writeError(w, status, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	}

	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// scopeOf returns the caller scope, writing 401 when the request carries none.
func scopeOf(w http.ResponseWriter, r *http.Request) (domain.Scope, bool) {
	scope, ok := domain.ScopeFromContext(r.Context())
	if !ok || scope.OwnerID == "" {
		writeError(w, http.StatusUnauthorized, "missing owner scope", "")
		return domain.Scope{}, false
	}
	return scope, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

func parseBoolQuery(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && b
}
