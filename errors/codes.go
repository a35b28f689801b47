package errors

import "net/http"

// ErrorCode is the machine-readable kind of an AppError.
type ErrorCode string

const (
	// Audio that cannot be read, decoded or is empty.
	ErrCodeInput ErrorCode = "INPUT_ERROR"
	// Input that decoded fine but violates a configured limit.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// Empty or whitespace-only retrieval query.
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"
	// Upload over the configured body limit.
	ErrCodeTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// Empty, unreadable or malformed article corpus.
	ErrCodeCorpus ErrorCode = "CORPUS_ERROR"
	// Query issued before the index was built.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// Failure of an external model or service.
	ErrCodeCollaborator ErrorCode = "COLLABORATOR_ERROR"
	// Collaborator call past its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// Every pipeline slot is taken.
	ErrCodeBusy ErrorCode = "BUSY"

	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// class is how a code behaves on the wire. Collaborator-side codes are
// retryable by the client; the pipeline itself never retries.
type class struct {
	status    int
	retryable bool
}

var classes = map[ErrorCode]class{
	ErrCodeInput:          {http.StatusBadRequest, false},
	ErrCodeValidation:     {http.StatusUnprocessableEntity, false},
	ErrCodeInvalidQuery:   {http.StatusBadRequest, false},
	ErrCodeTooLarge:       {http.StatusRequestEntityTooLarge, false},
	ErrCodeCorpus:         {http.StatusInternalServerError, false},
	ErrCodeNotInitialized: {http.StatusServiceUnavailable, false},
	ErrCodeCollaborator:   {http.StatusBadGateway, true},
	ErrCodeTimeout:        {http.StatusGatewayTimeout, true},
	ErrCodeBusy:           {http.StatusTooManyRequests, true},
	ErrCodeNotFound:       {http.StatusNotFound, false},
	ErrCodeInternal:       {http.StatusInternalServerError, false},
}

// Retryable reports whether a client may retry a request that failed with code.
func (c ErrorCode) Retryable() bool { return classes[c].retryable }

// Status is the HTTP status a response carrying code should use.
func (c ErrorCode) Status() int {
	if cl, ok := classes[c]; ok {
		return cl.status
	}
	return http.StatusInternalServerError
}
