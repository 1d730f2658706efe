// internal/model/dispatch.go
package model

// Status is the lifecycle state of a dispatch attempt.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	// StatusDelivered is reserved for webhook-driven delivery confirmation.
	// The synchronous send path never sets it.
	StatusDelivered Status = "delivered"
)

// SendMessageRequest is the input of the dispatch pipeline.
type SendMessageRequest struct {
	TemplateID     string         `json:"template_id"`
	RecipientEmail string         `json:"recipient_email,omitempty"`
	RecipientPhone string         `json:"recipient_phone,omitempty"`
	Variables      map[string]any `json:"variables"`
}

// DispatchResult is what a transport reports for one delivery attempt.
// Transports never return errors; every failure is captured here so the
// orchestrator can still write a log entry.
type DispatchResult struct {
	Success         bool           `json:"success"`
	Status          Status         `json:"status"`
	Recipient       string         `json:"recipient,omitempty"`
	Subject         string         `json:"subject,omitempty"`
	Message         string         `json:"message,omitempty"`
	Error           string         `json:"error,omitempty"`
	MessageID       string         `json:"message_id,omitempty"`
	ChannelResponse map[string]any `json:"response,omitempty"`
}

// TemplatePreview is the rendered form of a template, without any send.
type TemplatePreview struct {
	TemplateID    string         `json:"template_id"`
	Content       string         `json:"content"`
	Subject       *string        `json:"subject,omitempty"`
	VariablesUsed map[string]any `json:"variables_used"`
}

// MessageResponse is the standard API envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// DiagnosticResult aggregates the partial results of a connectivity test so
// an operator can see which sub-check failed.
type DiagnosticResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
