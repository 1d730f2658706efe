// internal/service/dispatch_service.go
package service

import (
	"context"
	"strings"
	"time"

	appErrors "github.com/jciconnect/comms-service/internal/errors"
	"github.com/jciconnect/comms-service/internal/metrics"
	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/observability/logger"
	"github.com/jciconnect/comms-service/internal/render"
	"github.com/jciconnect/comms-service/internal/repository"
	"github.com/jciconnect/comms-service/internal/transport"
)

// DefaultEmailSubject is used when an email template has no subject.
const DefaultEmailSubject = "Message from JCI Connect"

// DispatchService is the dispatch orchestrator: it resolves the template,
// resolves channel configuration, renders, invokes the transport and
// persists a log entry — the same pipeline for every channel. Keeping both
// channel branches here keeps the always-log invariant in exactly one place.
type DispatchService struct {
	Templates  repository.TemplateRepositoryInterface
	Logs       repository.MessageLogRepositoryInterface
	Config     *ConfigService
	Transports transport.Factory
}

// SendMessage runs one end-to-end dispatch. Failures before the transport
// call (unknown template, missing recipient, absent configuration, render
// failure) propagate as typed errors and write no log entry. Once a
// transport is invoked, a log entry is written regardless of the outcome;
// if that write fails the whole call fails with a LogPersistenceError.
func (s *DispatchService) SendMessage(ctx context.Context, req model.SendMessageRequest) (*model.DispatchResult, error) {
	log := logger.Named("dispatch").With(logger.String("template_id", req.TemplateID))

	tpl, err := s.Templates.GetByID(req.TemplateID)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	var result model.DispatchResult
	var rendered string
	var renderedSubject *string

	switch tpl.Channel {
	case model.ChannelEmail:
		if strings.TrimSpace(req.RecipientEmail) == "" {
			return nil, appErrors.NewValidation("email recipient is required for email templates")
		}

		cfg, err := s.Config.EmailConfig()
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, appErrors.NewConfigurationNotFound("email")
		}

		rendered, err = render.Render(tpl.Content, req.Variables)
		if err != nil {
			return nil, err
		}
		subject := DefaultEmailSubject
		if tpl.Subject != nil && *tpl.Subject != "" {
			subject = *tpl.Subject
		}
		subject, err = render.Render(subject, req.Variables)
		if err != nil {
			return nil, err
		}
		renderedSubject = &subject

		result = s.Transports.Email(*cfg).Send(ctx, transport.Message{
			Recipient: req.RecipientEmail,
			Subject:   subject,
			Content:   rendered,
		})

	case model.ChannelWhatsApp:
		if strings.TrimSpace(req.RecipientPhone) == "" {
			return nil, appErrors.NewValidation("phone number is required for whatsapp templates")
		}

		cfg, err := s.Config.WhatsAppConfig()
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, appErrors.NewConfigurationNotFound("whatsapp")
		}

		rendered, err = render.Render(tpl.Content, req.Variables)
		if err != nil {
			return nil, err
		}

		result = s.Transports.WhatsApp(*cfg).Send(ctx, transport.Message{
			Recipient: req.RecipientPhone,
			Content:   rendered,
		})

	default:
		return nil, appErrors.NewInvalidTemplateType(string(tpl.Channel))
	}

	metrics.DispatchAttempts.WithLabelValues(string(tpl.Channel), string(result.Status)).Inc()
	metrics.DispatchDuration.WithLabelValues(string(tpl.Channel)).Observe(time.Since(start).Seconds())

	entry := buildLog(tpl, req, rendered, renderedSubject, result)
	if err := s.Logs.Create(entry); err != nil {
		log.Error("message log write failed", logger.Err(err))
		return nil, appErrors.NewLogPersistence(err)
	}

	if result.Success {
		log.Info("message dispatched",
			logger.String("channel", string(tpl.Channel)),
			logger.String("log_id", entry.ID),
		)
	} else {
		log.Warn("message dispatch failed",
			logger.String("channel", string(tpl.Channel)),
			logger.String("log_id", entry.ID),
			logger.String("error", result.Error),
		)
	}

	return &result, nil
}

// PreviewMessage renders a template with the supplied variables without
// touching any transport or writing any log. Subject is nil for non-email
// channels.
func (s *DispatchService) PreviewMessage(templateID string, variables map[string]any) (*model.TemplatePreview, error) {
	tpl, err := s.Templates.GetByID(templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.Channel.Valid() {
		return nil, appErrors.NewInvalidTemplateType(string(tpl.Channel))
	}

	content, err := render.Render(tpl.Content, variables)
	if err != nil {
		return nil, err
	}

	preview := &model.TemplatePreview{
		TemplateID:    templateID,
		Content:       content,
		VariablesUsed: variables,
	}

	if tpl.Channel == model.ChannelEmail {
		subject := ""
		if tpl.Subject != nil {
			subject = *tpl.Subject
		}
		rendered, err := render.Render(subject, variables)
		if err != nil {
			return nil, err
		}
		preview.Subject = &rendered
	}

	return preview, nil
}

func buildLog(tpl *model.Template, req model.SendMessageRequest, rendered string, subject *string, result model.DispatchResult) *model.MessageLog {
	entry := &model.MessageLog{
		TemplateID:    &tpl.ID,
		Channel:       tpl.Channel,
		Subject:       subject,
		Content:       rendered,
		VariablesUsed: req.Variables,
		Status:        result.Status,
	}

	switch tpl.Channel {
	case model.ChannelEmail:
		email := req.RecipientEmail
		entry.RecipientEmail = &email
	case model.ChannelWhatsApp:
		phone := req.RecipientPhone
		entry.RecipientPhone = &phone
	}

	if result.Error != "" {
		errMsg := result.Error
		entry.ErrorMessage = &errMsg
	}
	if result.Success {
		now := time.Now().UTC()
		entry.SentAt = &now
	}
	return entry
}
