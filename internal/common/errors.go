// Package common defines shared constants and sentinel errors used across
// the service, repository and transport layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")

	// Auth errors.
	ErrUnauthorized  = errors.New("unauthorized")
	ErrLoginRequired = errors.New("login required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenRevoked  = errors.New("token revoked")
)

// MessageError pairs a sentinel kind with a message that is safe to show to
// the client. errors.Is(err, kind) holds for the wrapped kind.
type MessageError struct {
	Kind    error
	Message string
}

func (e *MessageError) Error() string { return e.Message }

func (e *MessageError) Unwrap() error { return e.Kind }

// WithMessage returns an error of the given kind carrying a client-facing message.
func WithMessage(kind error, msg string) error {
	return &MessageError{Kind: kind, Message: msg}
}

// PublicMessage returns the client-facing message attached to err, if any.
func PublicMessage(err error) (string, bool) {
	var me *MessageError
	if errors.As(err, &me) {
		return me.Message, true
	}
	return "", false
}
