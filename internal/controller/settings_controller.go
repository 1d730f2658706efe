// internal/controller/settings_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/service"
)

type SettingsController struct {
	Config *service.ConfigService
}

const redactedValue = "********"

// Get returns the organization settings with secrets redacted.
// GET /api/settings
func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := c.Config.GetSettings()
	if err != nil {
		respondError(w, err)
		return
	}
	if settings == nil {
		respondJSON(w, http.StatusOK, model.MessageResponse{
			Success: true,
			Message: "No organization settings configured yet",
		})
		return
	}

	respondJSON(w, http.StatusOK, model.OrganizationSettings{
		ID:             settings.ID,
		EmailConfig:    redact(settings.EmailConfig, "smtp_password"),
		WhatsAppConfig: redact(settings.WhatsAppConfig, "api_key"),
		UpdatedAt:      settings.UpdatedAt,
	})
}

// Update validates and stores new channel configuration. Omitting a channel
// leaves its stored configuration untouched.
// PUT /api/settings
func (c *SettingsController) Update(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmailConfig    map[string]any `json:"email_config"`
		WhatsAppConfig map[string]any `json:"whatsapp_config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if payload.EmailConfig == nil && payload.WhatsAppConfig == nil {
		respondError(w, appErrors.NewValidation("at least one of email_config or whatsapp_config is required"))
		return
	}

	settings, err := c.Config.UpdateSettings(payload.EmailConfig, payload.WhatsAppConfig)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, model.MessageResponse{
		Success: true,
		Message: "Settings updated",
		Data: model.OrganizationSettings{
			ID:             settings.ID,
			EmailConfig:    redact(settings.EmailConfig, "smtp_password"),
			WhatsAppConfig: redact(settings.WhatsAppConfig, "api_key"),
			UpdatedAt:      settings.UpdatedAt,
		},
	})
}

// redact returns a copy of the config map with the named key masked.
func redact(cfg map[string]any, secretKey string) map[string]any {
	if cfg == nil {
		return nil
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		if k == secretKey {
			out[k] = redactedValue
			continue
		}
		out[k] = v
	}
	return out
}
