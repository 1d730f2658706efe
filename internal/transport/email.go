package transport

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
	"go.uber.org/zap"

	"github.com/jciconnect/comms-service/internal/model"
	"github.com/jciconnect/comms-service/internal/observability/logger"
)

// EmailTransport delivers messages over SMTP.
type EmailTransport struct {
	cfg model.EmailConfig
	log *zap.Logger
}

func NewEmail(cfg model.EmailConfig) *EmailTransport {
	return &EmailTransport{
		cfg: cfg,
		log: logger.Named("smtp").With(
			logger.String("host", cfg.Host),
			logger.Int("port", cfg.Port),
		),
	}
}

// Send delivers one HTML email. All failures are captured into the result.
func (t *EmailTransport) Send(ctx context.Context, msg Message) model.DispatchResult {
	if t.cfg.Host == "" || t.cfg.Username == "" {
		return model.DispatchResult{
			Success:   false,
			Status:    model.StatusFailed,
			Recipient: msg.Recipient,
			Subject:   msg.Subject,
			Error:     "SMTP configuration incomplete",
		}
	}

	if err := ctx.Err(); err != nil {
		return t.failed(msg, err)
	}

	m := mail.NewMessage()
	m.SetHeader("Subject", msg.Subject)
	m.SetAddressHeader("From", t.cfg.FromEmail, t.cfg.FromName)
	m.SetHeader("To", msg.Recipient)
	m.SetBody("text/html", msg.Content)

	if err := t.dialer().DialAndSend(m); err != nil {
		t.log.Error("email send failed",
			logger.String("to", msg.Recipient),
			logger.Err(err),
		)
		return t.failed(msg, fmt.Errorf("smtp send: %w", err))
	}

	t.log.Info("email sent", logger.String("to", msg.Recipient))
	return model.DispatchResult{
		Success:   true,
		Status:    model.StatusSent,
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Message:   "Email sent successfully",
	}
}

// TestConnection connects and authenticates without sending anything.
func (t *EmailTransport) TestConnection(ctx context.Context) model.DispatchResult {
	info := map[string]any{"host": t.cfg.Host, "port": t.cfg.Port}

	if t.cfg.Host == "" || t.cfg.Username == "" {
		return model.DispatchResult{
			Success:         false,
			Status:          model.StatusFailed,
			Error:           "SMTP configuration incomplete",
			ChannelResponse: info,
		}
	}

	closer, err := t.dialer().Dial()
	if err != nil {
		t.log.Error("smtp connection test failed", logger.Err(err))
		return model.DispatchResult{
			Success:         false,
			Status:          model.StatusFailed,
			Error:           err.Error(),
			ChannelResponse: info,
		}
	}
	closer.Close()

	return model.DispatchResult{
		Success:         true,
		Status:          model.StatusSent,
		Message:         "SMTP connection successful",
		ChannelResponse: info,
	}
}

// dialer builds a go-mail dialer negotiating TLS per the stored flag: on
// port 465 the flag means implicit TLS, on every other port STARTTLS.
func (t *EmailTransport) dialer() *mail.Dialer {
	d := mail.NewDialer(t.cfg.Host, t.cfg.Port, t.cfg.Username, t.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: t.cfg.Host}
	if t.cfg.UseTLS {
		if t.cfg.Port == 465 {
			d.SSL = true
		} else {
			d.StartTLSPolicy = mail.MandatoryStartTLS
		}
	} else {
		d.StartTLSPolicy = mail.OpportunisticStartTLS
	}
	return d
}

func (t *EmailTransport) failed(msg Message, err error) model.DispatchResult {
	return model.DispatchResult{
		Success:   false,
		Status:    model.StatusFailed,
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Error:     err.Error(),
	}
}

var _ Transport = (*EmailTransport)(nil)
