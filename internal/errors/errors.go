// internal/errors/errors.go
package appErrors

import "fmt"

// ErrTemplateNotFound is returned when no template exists for the given id.
type ErrTemplateNotFound struct {
	TemplateID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template %s not found", e.TemplateID)
}

func NewTemplateNotFound(id string) error {
	return &ErrTemplateNotFound{TemplateID: id}
}

// ErrConfigurationNotFound is returned when the organization has no stored
// configuration for the requested channel.
type ErrConfigurationNotFound struct {
	Channel string
}

func (e *ErrConfigurationNotFound) Error() string {
	return fmt.Sprintf("%s configuration not found", e.Channel)
}

func NewConfigurationNotFound(channel string) error {
	return &ErrConfigurationNotFound{Channel: channel}
}

// ValidationError covers bad or missing request input: absent recipients,
// malformed phone numbers, unusable channel configuration.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidation(msg string) error {
	return &ValidationError{Msg: msg}
}

// ErrInvalidTemplateType is returned for a template whose channel value is
// not supported. Data arrives from an untyped store, so the check stays.
type ErrInvalidTemplateType struct {
	Type string
}

func (e *ErrInvalidTemplateType) Error() string {
	return fmt.Sprintf("unsupported template type: %s", e.Type)
}

func NewInvalidTemplateType(t string) error {
	return &ErrInvalidTemplateType{Type: t}
}

// RenderError wraps a template rendering failure: malformed placeholder
// syntax or a referenced variable that was not supplied.
type RenderError struct {
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template rendering failed: %v", e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

func NewRender(cause error) error {
	return &RenderError{Cause: cause}
}

// LogPersistenceError is returned when the message log entry for a dispatch
// attempt could not be written. Every attempted send must leave an audit
// trail; when it cannot, the caller has to know.
type LogPersistenceError struct {
	Cause error
}

func (e *LogPersistenceError) Error() string {
	return fmt.Sprintf("failed to persist message log: %v", e.Cause)
}

func (e *LogPersistenceError) Unwrap() error { return e.Cause }

func NewLogPersistence(cause error) error {
	return &LogPersistenceError{Cause: cause}
}
