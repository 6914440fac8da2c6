package handlers

import (
	"net/http"
	"time"

	"library-catalog/internal/service"
	"library-catalog/internal/utils"
)

func serviceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch service.Code(err) {
	case service.ErrNotFound:
		status = http.StatusNotFound
	case service.ErrInvalidInput, service.ErrInvalidState, service.ErrConflict:
		status = http.StatusBadRequest
	}
	utils.JSONError(w, err.Error(), status)
}

// parseDate accepts the date-only form the browser client submits, with
// RFC 3339 as a fallback for API callers.
func parseDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
