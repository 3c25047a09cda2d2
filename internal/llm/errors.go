package llm

import (
	"errors"
	"fmt"
)

var (
	ErrProtocol  = errors.New("protocol error")
	ErrTransport = errors.New("transport error")
)

// ProtocolError reports a response or history that breaks the expected shape.
type ProtocolError struct {
	Provider string
	Detail   string
}

func (e *ProtocolError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("protocol error: %s", e.Detail)
	}
	return fmt.Sprintf("%s: protocol error: %s", e.Provider, e.Detail)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }

// Protocolf builds a ProtocolError with a formatted detail.
func Protocolf(provider, format string, args ...any) error {
	return &ProtocolError{Provider: provider, Detail: fmt.Sprintf(format, args...)}
}

// TransportError wraps a network failure or a non-2xx status.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport error: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }
