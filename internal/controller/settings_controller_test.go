package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jciconnect/comms-service/internal/controller"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/service"
)

func TestGetSettingsRedactsSecrets(t *testing.T) {
	ctrl := &controller.SettingsController{Config: service.NewConfigService(&MockSettingsRepo{})}

	req := httptest.NewRequest("GET", "/api/settings", nil)
	w := httptest.NewRecorder()

	ctrl.Get(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res model.OrganizationSettings
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.EmailConfig["smtp_password"] != "********" {
		t.Errorf("smtp_password not redacted: %v", res.EmailConfig["smtp_password"])
	}
	if res.WhatsAppConfig["api_key"] != "********" {
		t.Errorf("api_key not redacted: %v", res.WhatsAppConfig["api_key"])
	}
	if res.EmailConfig["smtp_host"] != "smtp.example.com" {
		t.Errorf("non-secret keys must pass through, got %v", res.EmailConfig["smtp_host"])
	}
}

type emptySettingsRepo struct{}

func (emptySettingsRepo) Get() (*model.OrganizationSettings, error) { return nil, nil }
func (emptySettingsRepo) Update(emailConfig, whatsappConfig map[string]any) (*model.OrganizationSettings, error) {
	return &model.OrganizationSettings{ID: "settings-1", EmailConfig: emailConfig, WhatsAppConfig: whatsappConfig}, nil
}

func TestGetSettingsWhenUnconfigured(t *testing.T) {
	ctrl := &controller.SettingsController{Config: service.NewConfigService(emptySettingsRepo{})}

	req := httptest.NewRequest("GET", "/api/settings", nil)
	w := httptest.NewRecorder()

	ctrl.Get(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res model.MessageResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Success {
		t.Errorf("expected success=true for an empty settings record")
	}
}

func TestUpdateSettingsRequiresAtLeastOneConfig(t *testing.T) {
	ctrl := &controller.SettingsController{Config: service.NewConfigService(emptySettingsRepo{})}

	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	ctrl.Update(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestUpdateSettingsRejectsBadConfig(t *testing.T) {
	ctrl := &controller.SettingsController{Config: service.NewConfigService(emptySettingsRepo{})}

	body := []byte(`{"email_config": {"smtp_host": "smtp.example.com"}}`)
	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Update(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestUpdateSettingsSucceeds(t *testing.T) {
	ctrl := &controller.SettingsController{Config: service.NewConfigService(emptySettingsRepo{})}

	body := []byte(`{"whatsapp_config": {"api_url": "https://wa.example.com", "api_key": "key", "instance_name": "main"}}`)
	req := httptest.NewRequest("PUT", "/api/settings", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.Update(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res model.MessageResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Success {
		t.Errorf("expected success=true")
	}
}
