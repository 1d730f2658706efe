// internal/controller/response.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain error kinds to HTTP status codes: not-found to
// 404, validation / missing configuration / invalid channel / render
// failures to 400, everything else (including log persistence) to 500.
// Every failure gets the structured envelope rather than an opaque fault.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *appErrors.ErrTemplateNotFound
	var validation *appErrors.ValidationError
	var configMissing *appErrors.ErrConfigurationNotFound
	var invalidType *appErrors.ErrInvalidTemplateType
	var renderErr *appErrors.RenderError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation),
		errors.As(err, &configMissing),
		errors.As(err, &invalidType),
		errors.As(err, &renderErr):
		status = http.StatusBadRequest
	}

	respondJSON(w, status, model.MessageResponse{
		Success: false,
		Message: err.Error(),
		Data:    map[string]any{"error": err.Error()},
	})
}
