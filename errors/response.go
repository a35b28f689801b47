package errors

import stderrors "errors"

// Envelope is the JSON body of every failed HTTP response and of the SSE
// error preamble:
//
//	{"error": {"code": "NOT_FOUND", "message": "The requested run was not found.", "retryable": false}}
type Envelope struct {
	Error Payload `json:"error"`
}

// Payload is the client-visible part of an AppError. Causes stay server-side.
type Payload struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// Envelope wraps e for the wire.
func (e *AppError) Envelope() Envelope {
	return Envelope{Error: Payload{Code: e.Code, Message: e.Message, Retryable: e.Retryable, Details: e.Details}}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}
