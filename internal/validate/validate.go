package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/config.go
//   type StepSpec struct {
//       Message  string `yaml:"message" validate:"required"`
//       Severity string `yaml:"severity" validate:"omitempty,severity"`
//   }
//
// Besides the built-in tags (url, gt, min, ...) it registers "severity", which
// accepts the log levels understood by the feed package.

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ensigniasec/sec-analyzer/internal/feed"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails on an empty tag or nil func.
		_ = validatorInst.RegisterValidation("severity", validSeverity)
	})
	return validatorInst
}

func validSeverity(fl validator.FieldLevel) bool {
	_, err := feed.ParseSeverity(fl.Field().String())
	return err == nil
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
