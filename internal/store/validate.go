package store

import (
	"errors"
	"fmt"

	"github.com/roach88/browsetrace/internal/event"
)

// Validation errors returned by ValidateEvent and GetEvents.
// Match with errors.Is; ErrUnknownType is wrapped with the offending value.
var (
	ErrEmptyURL     = errors.New("url cannot be empty")
	ErrEmptyType    = errors.New("event type cannot be empty")
	ErrUnknownType  = errors.New("unrecognized event type")
	ErrBadTimestamp = errors.New("timestamp must be positive")
)

// ValidateEvent checks an event against the storage invariants, in order:
// non-empty url, non-empty type, recognized type, positive timestamp.
// The first failing check determines the returned error. No side effects.
func ValidateEvent(e event.Event) error {
	if e.URL == "" {
		return ErrEmptyURL
	}
	if e.Type == "" {
		return ErrEmptyType
	}
	if !event.ValidType(e.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	if e.TSUTC <= 0 {
		return ErrBadTimestamp
	}
	return nil
}
