package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jciconnect/comms-service/internal/model"
)

type SettingsRepositoryInterface interface {
	// Get returns the single organization settings record, or nil when none
	// exists yet. Absence is an expected state, not an error.
	Get() (*model.OrganizationSettings, error)
	// Update upserts the settings record. A nil config map leaves the stored
	// value for that channel untouched.
	Update(emailConfig, whatsappConfig map[string]any) (*model.OrganizationSettings, error)
}

type SettingsRepository struct {
	DB *sql.DB
}

func (r *SettingsRepository) Get() (*model.OrganizationSettings, error) {
	query := `SELECT id, email_config, whatsapp_config, updated_at FROM organization_settings LIMIT 1`
	s, err := scanSettings(r.DB.QueryRow(query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *SettingsRepository) Update(emailConfig, whatsappConfig map[string]any) (*model.OrganizationSettings, error) {
	emailJSON, err := marshalConfig(emailConfig)
	if err != nil {
		return nil, err
	}
	whatsappJSON, err := marshalConfig(whatsappConfig)
	if err != nil {
		return nil, err
	}

	// Single-tenant: exactly one row. COALESCE keeps the stored config when
	// the caller only updates one channel.
	query := `
        UPDATE organization_settings
        SET email_config=COALESCE($1, email_config),
            whatsapp_config=COALESCE($2, whatsapp_config),
            updated_at=NOW()
        RETURNING id, email_config, whatsapp_config, updated_at
    `
	s, err := scanSettings(r.DB.QueryRow(query, emailJSON, whatsappJSON))
	if err == nil {
		return s, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	insert := `
        INSERT INTO organization_settings (id, email_config, whatsapp_config, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, email_config, whatsapp_config, updated_at
    `
	return scanSettings(r.DB.QueryRow(insert, uuid.NewString(), emailJSON, whatsappJSON, time.Now().UTC()))
}

func marshalConfig(cfg map[string]any) (interface{}, error) {
	if cfg == nil {
		return nil, nil
	}
	buf, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode channel config: %w", err)
	}
	return buf, nil
}

func scanSettings(row rowScanner) (*model.OrganizationSettings, error) {
	var s model.OrganizationSettings
	var emailRaw, whatsappRaw []byte
	if err := row.Scan(&s.ID, &emailRaw, &whatsappRaw, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if len(emailRaw) > 0 {
		if err := json.Unmarshal(emailRaw, &s.EmailConfig); err != nil {
			return nil, fmt.Errorf("decode email config: %w", err)
		}
	}
	if len(whatsappRaw) > 0 {
		if err := json.Unmarshal(whatsappRaw, &s.WhatsAppConfig); err != nil {
			return nil, fmt.Errorf("decode whatsapp config: %w", err)
		}
	}
	return &s, nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
