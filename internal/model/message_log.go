// internal/model/message_log.go
package model

import "time"

// MessageLog is the append-only record of one dispatch attempt. Exactly one
// of RecipientEmail/RecipientPhone is set, matching Channel. Content holds
// the fully rendered body, not the template text. SentAt is set iff the
// transport reported success. Logs are never updated or deleted.
type MessageLog struct {
	ID             string         `db:"id" json:"id"`
	TemplateID     *string        `db:"template_id" json:"template_id,omitempty"`
	RecipientEmail *string        `db:"recipient_email" json:"recipient_email,omitempty"`
	RecipientPhone *string        `db:"recipient_phone" json:"recipient_phone,omitempty"`
	Channel        Channel        `db:"type" json:"type"`
	Subject        *string        `db:"subject" json:"subject,omitempty"`
	Content        string         `db:"content" json:"content"`
	VariablesUsed  map[string]any `db:"variables_used" json:"variables_used"`
	Status         Status         `db:"status" json:"status"`
	ErrorMessage   *string        `db:"error_message" json:"error_message,omitempty"`
	SentAt         *time.Time     `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
