package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTransport          = errors.New("remote store unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("product not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrOutOfStock         = errors.New("product out of stock")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidBackendMode = errors.New("invalid backend mode")
	ErrInvalidPrice       = errors.New("invalid price")

	// ErrLocalFallback marks a stock mutation that failed remotely and was
	// applied to the local snapshot instead.
	ErrLocalFallback = errors.New("applied to local snapshot")
)

// RemoteError is returned by the remote store adapter. Kind is one of
// ErrUnauthorized, ErrTransport, ErrValidation or ErrNotFound.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Kind       error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Kind }
