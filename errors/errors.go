package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type every legalassist component returns across
// package boundaries.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	// Cause stays server-side; it is logged but never serialized.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any *AppError with the same code, so
// errors.Is(err, errors.InvalidQuery()) holds for every invalid query.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose status and retryability follow from code.
// Pairs in kv become details; empty string values are skipped.
func New(code ErrorCode, message string, kv ...any) *AppError {
	e := &AppError{
		Code:       code,
		Message:    message,
		Retryable:  code.Retryable(),
		HTTPStatus: code.Status(),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if s, isString := kv[i+1].(string); key == "" || (isString && s == "") {
			continue
		}
		e.WithDetail(key, kv[i+1])
	}
	return e
}

// InputError is audio that cannot be read, decoded or is empty.
func InputError(path, reason string) *AppError {
	return New(ErrCodeInput, "Invalid audio input: "+reason, "path", path)
}

// ValidationError is an input that violates a configured limit.
func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func CorpusError(reason string, cause error) *AppError {
	return New(ErrCodeCorpus, "Legal corpus unusable: "+reason).WithCause(cause)
}

func InvalidQuery() *AppError {
	return New(ErrCodeInvalidQuery, "The search query must not be empty.")
}

// NotInitialized is a component used before it was built.
func NotInitialized(component string) *AppError {
	return New(ErrCodeNotInitialized, fmt.Sprintf("The %s has not been initialized.", component), "component", component)
}

// CollaboratorError is a failed call to an external model or service. The
// cause is kept as-is.
func CollaboratorError(collaborator string, cause error) *AppError {
	return New(ErrCodeCollaborator, fmt.Sprintf("The %s collaborator failed.", collaborator), "collaborator", collaborator).
		WithCause(cause)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The operation took too long.", "operation", operation)
}

// TooLarge is a request body above limit bytes.
func TooLarge(limit int64) *AppError {
	return New(ErrCodeTooLarge, "The uploaded file is too large.", "limit_bytes", limit)
}

// Busy is work rejected because resource is at capacity.
func Busy(resource string, cause error) *AppError {
	return New(ErrCodeBusy, fmt.Sprintf("The %s is busy, try again later.", resource), "resource", resource).
		WithCause(cause)
}

func NotFound(resource, id string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), "resource", resource, "id", id)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

// Wrap returns the first AppError in err's chain, or wraps err as
// INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err is, or wraps, an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
