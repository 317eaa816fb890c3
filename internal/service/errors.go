package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

// Error is a domain error whose Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrIntentNotFound         = &Error{Kind: ErrNotFound, Message: "intent not found"}
	ErrInviteNotFound         = &Error{Kind: ErrNotFound, Message: "invite not found"}
	ErrInviteTokenInvalid     = &Error{Kind: ErrNotFound, Message: "invalid invite token"}
	ErrInviteUsed             = &Error{Kind: ErrInvalidState, Message: "invite cannot be used: already used"}
	ErrInviteExpired          = &Error{Kind: ErrInvalidState, Message: "invite cannot be used: expired"}
	ErrDuplicatePendingIntent = &Error{Kind: ErrConflict, Message: "an intent with this email is already pending review"}
	ErrIntentHasInvite        = &Error{Kind: ErrConflict, Message: "intent already has an invite"}
	ErrMemberEmailExists      = &Error{Kind: ErrConflict, Message: "a member with this email already exists"}
)

// outcomeOf classifies err for metrics.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
