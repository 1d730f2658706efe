// internal/model/settings.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OrganizationSettings is the single record holding per-channel
// configuration. Either config map may be nil: "not configured" is an
// expected state, not an error. The maps are kept raw here; they are parsed
// into typed configs only when a channel is actually used.
type OrganizationSettings struct {
	ID             string         `db:"id" json:"id"`
	EmailConfig    map[string]any `db:"email_config" json:"email_config,omitempty"`
	WhatsAppConfig map[string]any `db:"whatsapp_config" json:"whatsapp_config,omitempty"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// EmailConfig is the SMTP configuration of the email channel.
type EmailConfig struct {
	Host      string `json:"smtp_host"`
	Port      int    `json:"smtp_port"`
	Username  string `json:"smtp_username"`
	Password  string `json:"smtp_password"`
	UseTLS    bool   `json:"smtp_use_tls"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
}

// WhatsAppConfig is the Evolution API configuration of the WhatsApp channel.
type WhatsAppConfig struct {
	APIURL       string `json:"api_url"`
	APIKey       string `json:"api_key"`
	InstanceName string `json:"instance_name"`
	WebhookURL   string `json:"webhook_url,omitempty"`
}

// ParseEmailConfig builds a typed EmailConfig from the raw settings map.
// The map comes from storage and may be arbitrarily malformed; wrong value
// types and missing required fields are reported as errors so dispatch
// short-circuits before any network call.
func ParseEmailConfig(raw map[string]any) (*EmailConfig, error) {
	cfg := EmailConfig{
		Port:     587,
		UseTLS:   true,
		FromName: "JCI Connect",
	}
	if err := decodeConfig(raw, &cfg); err != nil {
		return nil, fmt.Errorf("email config: %w", err)
	}

	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "smtp_host")
	}
	if cfg.Username == "" {
		missing = append(missing, "smtp_username")
	}
	if cfg.Password == "" {
		missing = append(missing, "smtp_password")
	}
	if cfg.FromEmail == "" {
		missing = append(missing, "from_email")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("email config: missing required fields: %s", strings.Join(missing, ", "))
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("email config: smtp_port %d out of range", cfg.Port)
	}
	return &cfg, nil
}

// ParseWhatsAppConfig builds a typed WhatsAppConfig from the raw settings map.
func ParseWhatsAppConfig(raw map[string]any) (*WhatsAppConfig, error) {
	var cfg WhatsAppConfig
	if err := decodeConfig(raw, &cfg); err != nil {
		return nil, fmt.Errorf("whatsapp config: %w", err)
	}

	var missing []string
	if cfg.APIURL == "" {
		missing = append(missing, "api_url")
	}
	if cfg.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if cfg.InstanceName == "" {
		missing = append(missing, "instance_name")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("whatsapp config: missing required fields: %s", strings.Join(missing, ", "))
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

// decodeConfig round-trips the raw map through JSON into dst, so that the
// struct tags above define the accepted keys and value types.
func decodeConfig(raw map[string]any, dst any) error {
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}
