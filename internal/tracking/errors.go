package tracking

import (
	"errors"
	"fmt"
	"strings"

	"casting-tracker/internal/storage"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

// Error is a caller-facing failure. Kind is one of the sentinels above and
// Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// translate turns storage sentinels into tracking errors naming what was
// looked up. Other errors pass through unchanged.
func translate(err error, what string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return newError(ErrNotFound, "%s not found", what)
	case errors.Is(err, storage.ErrExists):
		return newError(ErrConflict, "%s already exists", what)
	}
	return err
}

func requireID(value, field string) error {
	return requireIDs(field, value)
}

// requireIDs takes field, value pairs and reports every empty one at once.
func requireIDs(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, pairs[i]+" is required")
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Error{Kind: ErrValidation, Message: strings.Join(missing, ", ")}
}
