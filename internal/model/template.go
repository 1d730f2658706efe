// internal/model/template.go
package model

import "time"

// Channel identifies the delivery channel of a template.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether the channel is one of the supported values.
// Templates arrive from storage untyped, so this check has to stay even
// though the constants above are the only values we ever write.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

// Template is a stored message template. Subject is only meaningful for
// email templates; content and subject may contain {{variable}} placeholders.
type Template struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Channel   Channel   `db:"type" json:"type"`
	Subject   *string   `db:"subject" json:"subject,omitempty"`
	Content   string    `db:"content" json:"content"`
	Variables []string  `db:"variables" json:"variables"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
