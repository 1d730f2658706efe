// internal/service/diagnostics_service.go
package service

import (
	"context"

	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/transport"
)

// DiagnosticsService runs operator-facing connectivity checks. Each check
// reports partial results per attempted sub-step instead of failing fast,
// so an operator can see exactly which sub-check broke.
type DiagnosticsService struct {
	Config     *ConfigService
	Transports transport.Factory
}

// TestEmail verifies the stored SMTP configuration by connecting,
// authenticating and then sending a real test email to the given address.
func (s *DiagnosticsService) TestEmail(ctx context.Context, testEmail string) *model.DiagnosticResult {
	cfg, err := s.Config.EmailConfig()
	if err != nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "Stored email configuration is unusable",
			Data:    map[string]any{"error": err.Error()},
		}
	}
	if cfg == nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "Email configuration not found in database",
			Data:    map[string]any{"error": "no email configuration found"},
		}
	}

	tr := s.Transports.Email(*cfg)

	connection := tr.TestConnection(ctx)
	if !connection.Success {
		return &model.DiagnosticResult{
			Success: false,
			Message: "SMTP connection test failed",
			Data:    map[string]any{"connection_test": connection},
		}
	}

	send := tr.Send(ctx, transport.Message{
		Recipient: testEmail,
		Subject:   "JCI Connect - SMTP Test",
		Content:   "<h1>SMTP Test Successful!</h1><p>Your email configuration is working correctly.</p>",
	})

	message := "Email test completed"
	if send.Message != "" {
		message = send.Message
	}
	return &model.DiagnosticResult{
		Success: send.Success,
		Message: message,
		Data: map[string]any{
			"connection_test": connection,
			"email_test":      send,
		},
	}
}

// TestWhatsApp verifies the stored Evolution API configuration by checking
// the instance state and then sending a real test message.
func (s *DiagnosticsService) TestWhatsApp(ctx context.Context, testPhone string) *model.DiagnosticResult {
	cfg, err := s.Config.WhatsAppConfig()
	if err != nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "Stored WhatsApp configuration is unusable",
			Data:    map[string]any{"error": err.Error()},
		}
	}
	if cfg == nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "WhatsApp configuration not found in database",
			Data:    map[string]any{"error": "no whatsapp configuration found"},
		}
	}

	tr := s.Transports.WhatsApp(*cfg)

	connection := tr.TestConnection(ctx)
	if !connection.Success {
		return &model.DiagnosticResult{
			Success: false,
			Message: "WhatsApp connection test failed",
			Data:    map[string]any{"connection_test": connection},
		}
	}

	send := tr.Send(ctx, transport.Message{
		Recipient: testPhone,
		Content:   "*JCI Connect - WhatsApp Test*\n\nYour WhatsApp configuration is working correctly!",
	})

	message := "WhatsApp test completed"
	if send.Message != "" {
		message = send.Message
	}
	return &model.DiagnosticResult{
		Success: send.Success,
		Message: message,
		Data: map[string]any{
			"connection_test": connection,
			"message_test":    send,
		},
	}
}

// WhatsAppStatus reports the connection state of the configured instance.
func (s *DiagnosticsService) WhatsAppStatus(ctx context.Context) *model.DiagnosticResult {
	cfg, err := s.Config.WhatsAppConfig()
	if err != nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "Stored WhatsApp configuration is unusable",
			Data:    map[string]any{"error": err.Error()},
		}
	}
	if cfg == nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "WhatsApp configuration not found",
			Data:    map[string]any{"error": "no whatsapp configuration"},
		}
	}

	status := s.Transports.WhatsApp(*cfg).InstanceStatus(ctx)
	return &model.DiagnosticResult{
		Success: status.Success,
		Message: "WhatsApp status retrieved",
		Data:    status,
	}
}

// WhatsAppQR fetches the pairing QR payload for the configured instance.
func (s *DiagnosticsService) WhatsAppQR(ctx context.Context) *model.DiagnosticResult {
	cfg, err := s.Config.WhatsAppConfig()
	if err != nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "Stored WhatsApp configuration is unusable",
			Data:    map[string]any{"error": err.Error()},
		}
	}
	if cfg == nil {
		return &model.DiagnosticResult{
			Success: false,
			Message: "WhatsApp configuration not found",
			Data:    map[string]any{"error": "no whatsapp configuration"},
		}
	}

	qr := s.Transports.WhatsApp(*cfg).QRCode(ctx)
	return &model.DiagnosticResult{
		Success: qr.Success,
		Message: "WhatsApp QR code retrieved",
		Data:    qr,
	}
}
