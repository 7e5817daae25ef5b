package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// ErrorKind classifies a failed call so callers can show distinct states.
type ErrorKind string

const (
	// KindConnectivity: the server could not be reached.
	KindConnectivity ErrorKind = "connectivity"
	// KindTimeout: no response within the deadline.
	KindTimeout ErrorKind = "timeout"
	// KindAPI: the server answered with a failure envelope or non-2xx status.
	KindAPI ErrorKind = "api"
	KindUnknown ErrorKind = "unknown"
)

// Error is returned by every Client method on failure.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	// Errors は API が返したフィールド単位のエラー
	Errors []string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAPI:
		msg := e.Message
		if len(e.Errors) > 0 {
			msg += ": " + strings.Join(e.Errors, "; ")
		}
		return fmt.Sprintf("api error (%d): %s", e.Status, msg)
	case KindTimeout:
		return "request timed out"
	case KindConnectivity:
		return "cannot reach server: " + e.Err.Error()
	default:
		if e.Err != nil {
			return "unexpected error: " + e.Err.Error()
		}
		return "unexpected error: " + e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a client *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// IsUnauthorized reports whether the server rejected the credentials.
func IsUnauthorized(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == KindAPI && ce.Status == 401
}

// classifyTransport は http.Client.Do のエラーを分類する
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnknown, Err: err}
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, io.EOF) {
		return &Error{Kind: KindConnectivity, Err: err}
	}
	return &Error{Kind: KindUnknown, Err: err}
}
