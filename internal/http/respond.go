package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if status >= 500 {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, status,
			applog.FieldError, message)
	}
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError translates domain errors to HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the detail goes to the log.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "not found")
	case isValidationError(err):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		respondError(w, r, http.StatusConflict, "conflicting record already exists")
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err.Error())
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidPeriod,
		core.ErrInvalidCadence,
		core.ErrInvalidStatus,
		core.ErrInvalidDay,
		core.ErrEmptyName,
		core.ErrEmptyCategory,
		core.ErrEmptySource,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// queryRange reads optional from/to date bounds.
func queryRange(r *http.Request) (core.Range, error) {
	var rng core.Range
	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Range{}, err
		}
		rng.Start = d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Range{}, err
		}
		rng.End = d
	}
	return rng, nil
}

// queryPeriod reads the period token, falling back to monthly.
func queryPeriod(r *http.Request) core.Period {
	p, _ := core.ParsePeriod(r.URL.Query().Get("period"))
	return p
}
