package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/domain"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Client messages are fixed strings. The wrapped error only goes to the log.
var errorMappings = []errorMapping{
	{domain.ErrInvalidCategory, http.StatusBadRequest, "invalid category"},
	{domain.ErrInvalidAccount, http.StatusBadRequest, "invalid account"},
	// ErrAmountTooLarge is wrapped together with ErrInvalidAmount, so it goes first.
	{domain.ErrAmountTooLarge, http.StatusBadRequest, "amount exceeds maximum allowed"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "amount must be a positive value with at most two decimals"},
	{domain.ErrInvalidTransactionType, http.StatusBadRequest, "transaction type must be income or expense"},
	{domain.ErrInvalidDate, http.StatusBadRequest, "invalid date"},
	{domain.ErrInvalidNote, http.StatusBadRequest, "note is too long"},
	{domain.ErrInvalidReportType, http.StatusBadRequest, "invalid report type"},
	{domain.ErrInvalidTimeRange, http.StatusBadRequest, "invalid time range"},
	{domain.ErrInvalidAccountName, http.StatusBadRequest, "invalid account name"},
	{domain.ErrInvalidCategoryName, http.StatusBadRequest, "invalid category name"},
	{domain.ErrInvalidColor, http.StatusBadRequest, "invalid color"},
	{domain.ErrInvalidOwnerID, http.StatusBadRequest, "invalid owner id"},
	{domain.ErrTransactionNotFound, http.StatusNotFound, "transaction not found"},
	{domain.ErrAccountNotFound, http.StatusNotFound, "account not found"},
	{domain.ErrCategoryNotFound, http.StatusNotFound, "category not found"},
	{domain.ErrAccountInUse, http.StatusConflict, "account is referenced by transactions"},
	{domain.ErrCategoryInUse, http.StatusConflict, "category is referenced by transactions"},
	{domain.ErrDuplicateCategory, http.StatusConflict, "category already exists"},
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeMessage writes an error body with a fixed message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// writeError logs err and answers with the status and message mapped from
// it. Unknown errors become a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := mapDomainError(err)

	log := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Info().Err(err).Int("status", status).Msg("request rejected")
	}

	writeMessage(w, status, message)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}

	return http.StatusInternalServerError, "internal server error"
}

// decodeJSON reads the request body into v and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("invalid request body")
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
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
