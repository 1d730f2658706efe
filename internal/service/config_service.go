// internal/service/config_service.go
package service

import (
	"time"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/observability/logger"
	"github.com/jciconnect/comms-service/internal/repository"
)

const settingsCacheKey = "organization_settings"

// ConfigService resolves per-organization channel configuration from the
// settings store. Settings change rarely but are read on every dispatch, so
// they sit behind a short TTL cache.
type ConfigService struct {
	settings repository.SettingsRepositoryInterface
	cache    *cache.Cache
	log      *zap.Logger
}

func NewConfigService(settings repository.SettingsRepositoryInterface) *ConfigService {
	return &ConfigService{
		settings: settings,
		cache:    cache.New(30*time.Second, time.Minute),
		log:      logger.Named("config"),
	}
}

// GetSettings returns the organization settings record, or nil when none
// exists yet.
func (s *ConfigService) GetSettings() (*model.OrganizationSettings, error) {
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		return cached.(*model.OrganizationSettings), nil
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if settings != nil {
		s.cache.Set(settingsCacheKey, settings, cache.DefaultExpiration)
	}
	return settings, nil
}

// EmailConfig returns the typed SMTP configuration, nil when the channel is
// not configured, or a validation error when the stored map is unusable.
func (s *ConfigService) EmailConfig() (*model.EmailConfig, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}
	if settings == nil || len(settings.EmailConfig) == 0 {
		return nil, nil
	}

	cfg, err := model.ParseEmailConfig(settings.EmailConfig)
	if err != nil {
		s.log.Warn("stored email config is unusable", logger.Err(err))
		return nil, appErrors.NewValidation(err.Error())
	}
	return cfg, nil
}

// WhatsAppConfig returns the typed Evolution API configuration, nil when the
// channel is not configured, or a validation error when the stored map is
// unusable.
func (s *ConfigService) WhatsAppConfig() (*model.WhatsAppConfig, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}
	if settings == nil || len(settings.WhatsAppConfig) == 0 {
		return nil, nil
	}

	cfg, err := model.ParseWhatsAppConfig(settings.WhatsAppConfig)
	if err != nil {
		s.log.Warn("stored whatsapp config is unusable", logger.Err(err))
		return nil, appErrors.NewValidation(err.Error())
	}
	return cfg, nil
}

// UpdateSettings validates and persists new channel configuration. A nil
// map leaves the stored configuration for that channel unchanged.
func (s *ConfigService) UpdateSettings(emailConfig, whatsappConfig map[string]any) (*model.OrganizationSettings, error) {
	if emailConfig != nil {
		if _, err := model.ParseEmailConfig(emailConfig); err != nil {
			return nil, appErrors.NewValidation(err.Error())
		}
	}
	if whatsappConfig != nil {
		if _, err := model.ParseWhatsAppConfig(whatsappConfig); err != nil {
			return nil, appErrors.NewValidation(err.Error())
		}
	}

	settings, err := s.settings.Update(emailConfig, whatsappConfig)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(settingsCacheKey)
	s.log.Info("organization settings updated")
	return settings, nil
}
