package httpclient

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed request.
type Kind string

const (
	// KindTimeout is a request that hit its deadline.
	KindTimeout Kind = "timeout"
	// KindConnection is a request that never got a response.
	KindConnection Kind = "connection"
	// KindStatus is a non-2xx response.
	KindStatus Kind = "status"
	// KindDecode is a body that could not be encoded or decoded.
	KindDecode Kind = "decode"
)

// maxBodyInMessage bounds how much of an error body Error() echoes.
const maxBodyInMessage = 256

// Error is a failed request.
type Error struct {
	Kind   Kind
	Method string
	Path   string
	// Status is the HTTP status, zero when no response arrived.
	Status int
	// Body is the start of the response body for KindStatus.
	Body string
	Err  error
}

func (e *Error) Error() string {
	target := strings.TrimSpace(e.Method + " " + e.Path)
	switch {
	case e.Kind == KindStatus && e.Body != "":
		return fmt.Sprintf("httpclient: %s: HTTP %d: %s", target, e.Status, e.Body)
	case e.Kind == KindStatus:
		return fmt.Sprintf("httpclient: %s: HTTP %d", target, e.Status)
	default:
		return fmt.Sprintf("httpclient: %s: %s: %v", target, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the request hit its deadline, in the manner of
// net.Error.
func (e *Error) Timeout() bool { return e.Kind == KindTimeout }

func statusError(method, path string, status int, body []byte) *Error {
	text := strings.TrimSpace(string(body))
	if len(text) > maxBodyInMessage {
		text = text[:maxBodyInMessage]
	}
	return &Error{Kind: KindStatus, Method: method, Path: path, Status: status, Body: text}
}

// IsTimeout reports whether err is a request that hit its deadline.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTimeout
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
