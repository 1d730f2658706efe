// internal/controller/communication_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strings"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/service"
)

type CommunicationController struct {
	Dispatch    *service.DispatchService
	Diagnostics *service.DiagnosticsService
}

// SendMessage dispatches a template to a recipient.
// POST /api/communication/send-message
func (c *CommunicationController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		respondError(w, appErrors.NewValidation("template_id is required"))
		return
	}

	result, err := c.Dispatch.SendMessage(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	message := result.Message
	if message == "" {
		message = "Message processed"
	}
	respondJSON(w, http.StatusOK, model.MessageResponse{
		Success: result.Success,
		Message: message,
		Data:    result,
	})
}

// PreviewTemplate renders a template without sending anything.
// POST /api/communication/preview-template
func (c *CommunicationController) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string         `json:"template_id"`
		Variables  map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		respondError(w, appErrors.NewValidation("template_id is required"))
		return
	}

	preview, err := c.Dispatch.PreviewMessage(req.TemplateID, req.Variables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

// TestEmail runs the SMTP diagnostic against the stored configuration.
// POST /api/communication/test-email
func (c *CommunicationController) TestEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TestEmail string `json:"test_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.TestEmail) == "" {
		respondError(w, appErrors.NewValidation("test_email is required"))
		return
	}

	respondJSON(w, http.StatusOK, c.Diagnostics.TestEmail(r.Context(), req.TestEmail))
}

// TestWhatsApp runs the Evolution API diagnostic against the stored
// configuration.
// POST /api/communication/test-whatsapp
func (c *CommunicationController) TestWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TestPhone string `json:"test_phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, appErrors.NewValidation("invalid request body: "+err.Error()))
		return
	}
	if strings.TrimSpace(req.TestPhone) == "" {
		respondError(w, appErrors.NewValidation("test_phone is required"))
		return
	}

	respondJSON(w, http.StatusOK, c.Diagnostics.TestWhatsApp(r.Context(), req.TestPhone))
}

// WhatsAppStatus reports the configured instance's connection state.
// GET /api/communication/whatsapp/status
func (c *CommunicationController) WhatsAppStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.Diagnostics.WhatsAppStatus(r.Context()))
}

// WhatsAppQR returns the pairing QR payload for the configured instance.
// GET /api/communication/whatsapp/qr
func (c *CommunicationController) WhatsAppQR(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, c.Diagnostics.WhatsAppQR(r.Context()))
}
