package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jciconnect/comms-service/internal/controller"
	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/service"
	"github.com/jciconnect/comms-service/internal/transport"
)

// --- Mock Repositories ---

type MockTemplateRepo struct {
	templates map[string]*model.Template
}

func (m *MockTemplateRepo) GetByID(id string) (*model.Template, error) {
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, appErrors.NewTemplateNotFound(id)
}

func (m *MockTemplateRepo) List(offset, limit int, channel string, active *bool) ([]*model.Template, int, error) {
	return []*model.Template{}, 0, nil
}
func (m *MockTemplateRepo) Create(t *model.Template) error { return nil }
func (m *MockTemplateRepo) Update(t *model.Template) error { return nil }
func (m *MockTemplateRepo) Delete(id string) error         { return nil }

type MockLogRepo struct {
	created []*model.MessageLog
}

func (m *MockLogRepo) Create(l *model.MessageLog) error {
	l.ID = fmt.Sprintf("log-%d", len(m.created)+1)
	m.created = append(m.created, l)
	return nil
}

func (m *MockLogRepo) List(offset, limit int, channel, status string) ([]*model.MessageLog, int, error) {
	return m.created, len(m.created), nil
}

type MockSettingsRepo struct{}

func (m *MockSettingsRepo) Get() (*model.OrganizationSettings, error) {
	return &model.OrganizationSettings{
		ID: "settings-1",
		EmailConfig: map[string]any{
			"smtp_host":     "smtp.example.com",
			"smtp_username": "mailer@example.com",
			"smtp_password": "secret",
			"from_email":    "noreply@example.com",
		},
		WhatsAppConfig: map[string]any{
			"api_url":       "https://wa.example.com",
			"api_key":       "key",
			"instance_name": "main",
		},
	}, nil
}

func (m *MockSettingsRepo) Update(emailConfig, whatsappConfig map[string]any) (*model.OrganizationSettings, error) {
	return nil, nil
}

// --- Mock Transports ---

type MockTransport struct {
	result model.DispatchResult
}

func (m *MockTransport) Send(ctx context.Context, msg transport.Message) model.DispatchResult {
	res := m.result
	res.Recipient = msg.Recipient
	return res
}

func (m *MockTransport) TestConnection(ctx context.Context) model.DispatchResult {
	return m.result
}

type MockWhatsApp struct {
	MockTransport
	status transport.InstanceStatus
}

func (m *MockWhatsApp) InstanceStatus(ctx context.Context) transport.InstanceStatus {
	return m.status
}

func (m *MockWhatsApp) QRCode(ctx context.Context) transport.QRCode {
	return transport.QRCode{Success: true, QRCode: "base64payload", InstanceName: "main"}
}

type MockFactory struct {
	email *MockTransport
	wa    *MockWhatsApp
}

func (f *MockFactory) Email(cfg model.EmailConfig) transport.Transport { return f.email }

func (f *MockFactory) WhatsApp(cfg model.WhatsAppConfig) transport.WhatsAppAPI { return f.wa }

func newController(sendResult model.DispatchResult, logs *MockLogRepo) *controller.CommunicationController {
	subject := "Hello {{name}}"
	templates := &MockTemplateRepo{templates: map[string]*model.Template{
		"tpl-1": {
			ID:      "tpl-1",
			Name:    "Greeting",
			Channel: model.ChannelEmail,
			Subject: &subject,
			Content: "Welcome {{name}}!",
		},
	}}
	factory := &MockFactory{
		email: &MockTransport{result: sendResult},
		wa:    &MockWhatsApp{MockTransport: MockTransport{result: sendResult}},
	}
	cfg := service.NewConfigService(&MockSettingsRepo{})
	dispatch := &service.DispatchService{
		Templates:  templates,
		Logs:       logs,
		Config:     cfg,
		Transports: factory,
	}
	diagnostics := &service.DiagnosticsService{Config: cfg, Transports: factory}
	return &controller.CommunicationController{Dispatch: dispatch, Diagnostics: diagnostics}
}

// --- Tests ---

func TestSendMessageEndpoint(t *testing.T) {
	logs := &MockLogRepo{}
	ctrl := newController(model.DispatchResult{Success: true, Status: model.StatusSent, Message: "Email sent successfully"}, logs)

	body, _ := json.Marshal(map[string]any{
		"template_id":     "tpl-1",
		"recipient_email": "ana@example.com",
		"variables":       map[string]any{"name": "Ana"},
	})
	req := httptest.NewRequest("POST", "/api/communication/send-message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SendMessage(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var res model.MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Success {
		t.Errorf("expected success=true, got false")
	}
	if res.Message != "Email sent successfully" {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if len(logs.created) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(logs.created))
	}
}

func TestSendMessageUnknownTemplate(t *testing.T) {
	logs := &MockLogRepo{}
	ctrl := newController(model.DispatchResult{Success: true, Status: model.StatusSent}, logs)

	body, _ := json.Marshal(map[string]any{
		"template_id":     "nope",
		"recipient_email": "ana@example.com",
	})
	req := httptest.NewRequest("POST", "/api/communication/send-message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SendMessage(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Result().StatusCode)
	}

	var res model.MessageResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Success {
		t.Errorf("expected success=false")
	}
	if !strings.Contains(res.Message, "not found") {
		t.Errorf("expected not-found message, got %q", res.Message)
	}
	if len(logs.created) != 0 {
		t.Errorf("expected no log entries, got %d", len(logs.created))
	}
}

func TestSendMessageMissingRecipient(t *testing.T) {
	ctrl := newController(model.DispatchResult{Success: true, Status: model.StatusSent}, &MockLogRepo{})

	body, _ := json.Marshal(map[string]any{"template_id": "tpl-1"})
	req := httptest.NewRequest("POST", "/api/communication/send-message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SendMessage(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestSendMessageMissingTemplateID(t *testing.T) {
	ctrl := newController(model.DispatchResult{Success: true, Status: model.StatusSent}, &MockLogRepo{})

	body, _ := json.Marshal(map[string]any{"recipient_email": "ana@example.com"})
	req := httptest.NewRequest("POST", "/api/communication/send-message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SendMessage(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestSendMessageTransportFailureReturns200(t *testing.T) {
	logs := &MockLogRepo{}
	ctrl := newController(model.DispatchResult{Success: false, Status: model.StatusFailed, Error: "connection refused"}, logs)

	body, _ := json.Marshal(map[string]any{
		"template_id":     "tpl-1",
		"recipient_email": "ana@example.com",
		"variables":       map[string]any{"name": "Ana"},
	})
	req := httptest.NewRequest("POST", "/api/communication/send-message", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.SendMessage(w, req)

	// A transport failure is a recorded outcome, not an API error.
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res model.MessageResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Success {
		t.Errorf("expected success=false")
	}
	if len(logs.created) != 1 {
		t.Errorf("expected 1 log entry for the failed attempt, got %d", len(logs.created))
	}
}

func TestPreviewTemplateEndpoint(t *testing.T) {
	logs := &MockLogRepo{}
	ctrl := newController(model.DispatchResult{Success: true, Status: model.StatusSent}, logs)

	body, _ := json.Marshal(map[string]any{
		"template_id": "tpl-1",
		"variables":   map[string]any{"name": "Ana"},
	})
	req := httptest.NewRequest("POST", "/api/communication/preview-template", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.PreviewTemplate(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var preview model.TemplatePreview
	if err := json.NewDecoder(w.Result().Body).Decode(&preview); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if preview.Content != "Welcome Ana!" {
		t.Errorf("unexpected content: %q", preview.Content)
	}
	if preview.Subject == nil || *preview.Subject != "Hello Ana" {
		t.Errorf("unexpected subject: %v", preview.Subject)
	}
	if len(logs.created) != 0 {
		t.Errorf("preview must not write log entries, got %d", len(logs.created))
	}
}

func TestPreviewTemplateMissingVariable(t *testing.T) {
	ctrl := newController(model.DispatchResult{Success: true, Status: model.StatusSent}, &MockLogRepo{})

	body, _ := json.Marshal(map[string]any{"template_id": "tpl-1", "variables": map[string]any{}})
	req := httptest.NewRequest("POST", "/api/communication/preview-template", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ctrl.PreviewTemplate(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestTestEmailRequiresAddress(t *testing.T) {
	ctrl := newController(model.DispatchResult{Success: true}, &MockLogRepo{})

	req := httptest.NewRequest("POST", "/api/communication/test-email", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	ctrl.TestEmail(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestTestWhatsAppRequiresPhone(t *testing.T) {
	ctrl := newController(model.DispatchResult{Success: true}, &MockLogRepo{})

	req := httptest.NewRequest("POST", "/api/communication/test-whatsapp", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	ctrl.TestWhatsApp(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Result().StatusCode)
	}
}

func TestWhatsAppStatusEndpoint(t *testing.T) {
	logs := &MockLogRepo{}
	ctrl := newController(model.DispatchResult{Success: true}, logs)

	req := httptest.NewRequest("GET", "/api/communication/whatsapp/status", nil)
	w := httptest.NewRecorder()

	ctrl.WhatsAppStatus(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}
}

func TestWhatsAppQREndpoint(t *testing.T) {
	ctrl := newController(model.DispatchResult{Success: true}, &MockLogRepo{})

	req := httptest.NewRequest("GET", "/api/communication/whatsapp/qr", nil)
	w := httptest.NewRecorder()

	ctrl.WhatsAppQR(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res model.DiagnosticResult
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Success {
		t.Errorf("expected success=true")
	}
}
