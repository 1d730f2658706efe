package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/observability/logger"
)

const (
	whatsappSendTimeout   = 30 * time.Second
	whatsappStatusTimeout = 10 * time.Second
)

// WhatsAppTransport delivers messages through an Evolution API instance.
type WhatsAppTransport struct {
	cfg          model.WhatsAppConfig
	sendClient   *http.Client
	statusClient *http.Client
	log          *zap.Logger
}

func NewWhatsApp(cfg model.WhatsAppConfig) *WhatsAppTransport {
	return &WhatsAppTransport{
		cfg:          cfg,
		sendClient:   &http.Client{Timeout: whatsappSendTimeout},
		statusClient: &http.Client{Timeout: whatsappStatusTimeout},
		log: logger.Named("whatsapp").With(
			logger.String("instance", cfg.InstanceName),
		),
	}
}

// NormalizePhone strips non-digit characters and applies the US/Canada
// country-code rule: 10 digits get a leading 1, 11 digits starting with 1
// pass unchanged, fewer than 10 digits are invalid, anything else passes
// through unmodified. The rule is knowingly narrow; it mirrors the stored
// data this system already has.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "1" + digits, nil
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return digits, nil
	case len(digits) < 10:
		return "", appErrors.NewValidation(fmt.Sprintf("invalid phone number format: %s", phone))
	default:
		return digits, nil
	}
}

// Send posts a text message to the Evolution API. All failures, including
// phone validation, are captured into the result so the attempt is logged.
func (t *WhatsAppTransport) Send(ctx context.Context, msg Message) model.DispatchResult {
	if t.cfg.APIURL == "" || t.cfg.APIKey == "" || t.cfg.InstanceName == "" {
		return model.DispatchResult{
			Success:   false,
			Status:    model.StatusFailed,
			Recipient: msg.Recipient,
			Error:     "WhatsApp configuration incomplete",
		}
	}

	number, err := NormalizePhone(msg.Recipient)
	if err != nil {
		return model.DispatchResult{
			Success:   false,
			Status:    model.StatusFailed,
			Recipient: msg.Recipient,
			Error:     err.Error(),
		}
	}

	payload, err := json.Marshal(map[string]string{
		"number": number,
		"text":   msg.Content,
	})
	if err != nil {
		return t.failed(number, err)
	}

	url := fmt.Sprintf("%s/message/sendText/%s", t.cfg.APIURL, t.cfg.InstanceName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return t.failed(number, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", t.cfg.APIKey)

	resp, err := t.sendClient.Do(req)
	if err != nil {
		t.log.Error("whatsapp send failed", logger.String("to", number), logger.Err(err))
		return t.failed(number, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.failed(number, err)
	}

	if resp.StatusCode != http.StatusOK {
		errMsg := fmt.Sprintf("evolution api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
		t.log.Error("whatsapp send rejected",
			logger.String("to", number),
			logger.Int("status_code", resp.StatusCode),
		)
		return model.DispatchResult{
			Success:   false,
			Status:    model.StatusFailed,
			Recipient: number,
			Error:     errMsg,
		}
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return t.failed(number, fmt.Errorf("decode evolution api response: %w", err))
	}

	t.log.Info("whatsapp message sent", logger.String("to", number))
	return model.DispatchResult{
		Success:         true,
		Status:          model.StatusSent,
		Recipient:       number,
		Message:         "WhatsApp message sent successfully",
		MessageID:       nestedString(data, "key", "id"),
		ChannelResponse: data,
	}
}

// InstanceStatus queries the connection state of the configured instance.
// Provider state "open" means the instance is paired and connected.
func (t *WhatsAppTransport) InstanceStatus(ctx context.Context) InstanceStatus {
	if t.cfg.APIURL == "" || t.cfg.InstanceName == "" {
		return InstanceStatus{
			Success:      false,
			InstanceName: t.cfg.InstanceName,
			Error:        "WhatsApp configuration incomplete",
		}
	}

	url := fmt.Sprintf("%s/instance/connectionState/%s", t.cfg.APIURL, t.cfg.InstanceName)
	data, err := t.getJSON(ctx, url)
	if err != nil {
		t.log.Error("whatsapp status query failed", logger.Err(err))
		return InstanceStatus{
			Success:      false,
			InstanceName: t.cfg.InstanceName,
			Error:        err.Error(),
		}
	}

	state := nestedString(data, "instance", "state")
	return InstanceStatus{
		Success:      true,
		InstanceName: t.cfg.InstanceName,
		State:        state,
		Connected:    state == "open",
		Response:     data,
	}
}

// QRCode fetches the base64 pairing QR payload for the instance.
func (t *WhatsAppTransport) QRCode(ctx context.Context) QRCode {
	if t.cfg.APIURL == "" || t.cfg.InstanceName == "" {
		return QRCode{
			Success:      false,
			InstanceName: t.cfg.InstanceName,
			Error:        "WhatsApp configuration incomplete",
		}
	}

	url := fmt.Sprintf("%s/instance/connect/%s", t.cfg.APIURL, t.cfg.InstanceName)
	data, err := t.getJSON(ctx, url)
	if err != nil {
		t.log.Error("whatsapp qr query failed", logger.Err(err))
		return QRCode{
			Success:      false,
			InstanceName: t.cfg.InstanceName,
			Error:        err.Error(),
		}
	}

	qr, _ := data["base64"].(string)
	return QRCode{
		Success:      true,
		QRCode:       qr,
		InstanceName: t.cfg.InstanceName,
		Response:     data,
	}
}

// TestConnection reinterprets the instance status as a connectivity check.
func (t *WhatsAppTransport) TestConnection(ctx context.Context) model.DispatchResult {
	status := t.InstanceStatus(ctx)
	if !status.Success {
		return model.DispatchResult{
			Success: false,
			Status:  model.StatusFailed,
			Error:   status.Error,
		}
	}
	return model.DispatchResult{
		Success: true,
		Status:  model.StatusSent,
		Message: "WhatsApp connection successful",
		ChannelResponse: map[string]any{
			"instance_name": status.InstanceName,
			"status":        status.State,
			"connected":     status.Connected,
		},
	}
}

func (t *WhatsAppTransport) getJSON(ctx context.Context, url string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", t.cfg.APIKey)

	resp, err := t.statusClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evolution api error: %d", resp.StatusCode)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode evolution api response: %w", err)
	}
	return data, nil
}

func (t *WhatsAppTransport) failed(recipient string, err error) model.DispatchResult {
	return model.DispatchResult{
		Success:   false,
		Status:    model.StatusFailed,
		Recipient: recipient,
		Error:     err.Error(),
	}
}

func nestedString(data map[string]any, keys ...string) string {
	current := data
	for i, k := range keys {
		v, ok := current[k]
		if !ok {
			return ""
		}
		if i == len(keys)-1 {
			s, _ := v.(string)
			return s
		}
		current, ok = v.(map[string]any)
		if !ok {
			return ""
		}
	}
	return ""
}

var _ WhatsAppAPI = (*WhatsAppTransport)(nil)
