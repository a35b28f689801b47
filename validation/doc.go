// Package validation turns bad input into VALIDATION_ERROR AppErrors.
//
// Settings and other tagged structs go through Validate, which reports
// fields by their mapstructure or json names:
//
//	type Limits struct {
//	    MaxAudioMinutes int `mapstructure:"max_audio_minutes" validate:"gt=0"`
//	}
//	err := validation.Validate(limits)
//
// Loose parameters use Checks:
//
//	err := validation.New().Required("query", q).Range("top_k", k, 1, 50).Err()
package validation
