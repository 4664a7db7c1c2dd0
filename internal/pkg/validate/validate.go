package validate

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/go-posts-api/internal/domain"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. Any validation
// failure is reported as domain.ErrBadParams; the per-field detail is logged
// but not surfaced, since the response message for bad parameters is fixed.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			slog.Debug("validation failed", "field", fe.Field(), "tag", fe.Tag())
		}
	}
	return domain.ErrBadParams
}
