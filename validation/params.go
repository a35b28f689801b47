package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/legalassist/errors"
)

// FieldError is one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checks accumulates problems with individual request parameters, for
// inputs that do not arrive as a tagged struct (query strings, tool
// arguments).
//
//	if err := validation.New().Range("top_k", k, 1, 50).Err(); err != nil { ... }
type Checks struct {
	problems []FieldError
}

// New starts an empty set of checks.
func New() *Checks { return &Checks{} }

func (c *Checks) fail(field, format string, args ...any) *Checks {
	c.problems = append(c.problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return c
}

// Required rejects blank strings.
func (c *Checks) Required(field, value string) *Checks {
	if strings.TrimSpace(value) == "" {
		return c.fail(field, "is required")
	}
	return c
}

// RequiredUUID rejects values that are not a non-nil UUID.
func (c *Checks) RequiredUUID(field, value string) *Checks {
	id, err := uuid.Parse(strings.TrimSpace(value))
	switch {
	case value == "":
		return c.fail(field, "is required")
	case err != nil:
		return c.fail(field, "must be a valid UUID")
	case id == uuid.Nil:
		return c.fail(field, "must not be the nil UUID")
	}
	return c
}

// Range rejects integers outside [lo, hi].
func (c *Checks) Range(field string, value, lo, hi int) *Checks {
	if value < lo || value > hi {
		return c.fail(field, "must be between %d and %d", lo, hi)
	}
	return c
}

// OneOf rejects non-empty values outside allowed.
func (c *Checks) OneOf(field, value string, allowed ...string) *Checks {
	if value == "" {
		return c
	}
	for _, a := range allowed {
		if a == value {
			return c
		}
	}
	return c.fail(field, "must be one of %s", strings.Join(allowed, ", "))
}

// Problems returns the failed checks in order.
func (c *Checks) Problems() []FieldError { return c.problems }

// Err folds the failed checks into one VALIDATION_ERROR listing every field,
// or returns nil.
func (c *Checks) Err() *errors.AppError {
	if len(c.problems) == 0 {
		return nil
	}
	parts := make([]string, len(c.problems))
	for i, p := range c.problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return errors.ValidationError(strings.Join(parts, "; ")).WithDetail("fields", c.problems)
}
