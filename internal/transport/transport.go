// Package transport contains the per-channel delivery implementations.
// Each transport wraps one external protocol behind the same contract, so
// the dispatch pipeline stays identical for every channel.
package transport

import (
	"context"

	"github.com/jciconnect/comms-service/internal/model"
)

// Message is a fully rendered message ready for delivery. Rendering happens
// once, in the orchestrator; transports do not substitute variables.
type Message struct {
	Recipient string
	Subject   string
	Content   string
}

// Transport delivers a rendered message over one channel. Send must never
// return an error: every failure (auth, connect, provider rejection, bad
// recipient) is captured into the DispatchResult so the caller can always
// write a log entry.
type Transport interface {
	Send(ctx context.Context, msg Message) model.DispatchResult
	TestConnection(ctx context.Context) model.DispatchResult
}

// WhatsAppAPI extends Transport with the Evolution API status queries that
// only the WhatsApp channel has.
type WhatsAppAPI interface {
	Transport
	InstanceStatus(ctx context.Context) InstanceStatus
	QRCode(ctx context.Context) QRCode
}

// InstanceStatus reports the connection state of a WhatsApp instance.
type InstanceStatus struct {
	Success      bool           `json:"success"`
	InstanceName string         `json:"instance_name"`
	State        string         `json:"status,omitempty"`
	Connected    bool           `json:"connected"`
	Error        string         `json:"error,omitempty"`
	Response     map[string]any `json:"response,omitempty"`
}

// QRCode carries the provider's base64-encoded pairing QR payload.
type QRCode struct {
	Success      bool           `json:"success"`
	QRCode       string         `json:"qr_code,omitempty"`
	InstanceName string         `json:"instance_name"`
	Error        string         `json:"error,omitempty"`
	Response     map[string]any `json:"response,omitempty"`
}

// Factory builds transports from per-organization channel configuration.
// Configuration is data fetched per call, so transports are constructed per
// dispatch; the factory is the seam tests replace.
type Factory interface {
	Email(cfg model.EmailConfig) Transport
	WhatsApp(cfg model.WhatsAppConfig) WhatsAppAPI
}

type factory struct{}

// NewFactory returns the production transport factory.
func NewFactory() Factory {
	return factory{}
}

func (factory) Email(cfg model.EmailConfig) Transport {
	return NewEmail(cfg)
}

func (factory) WhatsApp(cfg model.WhatsAppConfig) WhatsAppAPI {
	return NewWhatsApp(cfg)
}
