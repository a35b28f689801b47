package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/legalassist/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(keyName)
	return v
})

// keyName reports fields by the key a user writes in config.yml or a JSON
// body rather than by their Go name.
func keyName(f reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
			return name
		}
	}
	return snake(f.Name)
}

func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Validate checks the `validate` tags of s and reports every failing field
// in one VALIDATION_ERROR.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !stderrors.As(err, &failures) {
		return errors.ValidationError("validation failed").WithCause(err)
	}

	checks := New()
	for _, f := range failures {
		// Drop the root type: "Settings.audio.chunk_seconds" -> "audio.chunk_seconds".
		_, path, found := strings.Cut(f.Namespace(), ".")
		if !found {
			path = f.Namespace()
		}
		checks.fail(path, "%s", describe(f))
	}
	if appErr := checks.Err(); appErr != nil {
		return appErr
	}
	return nil
}

var tagMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least ",
	"max":      "must be at most ",
	"gt":       "must be greater than ",
	"gte":      "must be greater than or equal to ",
	"lte":      "must be less than or equal to ",
	"oneof":    "must be one of: ",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
}

func describe(f validator.FieldError) string {
	msg, ok := tagMessages[f.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + f.Param()
	}
	return msg
}
