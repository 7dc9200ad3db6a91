package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Error kinds surfaced by every service. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	ErrUnauthorized      = errors.New("operation not permitted for this role")
)

// lookupErr maps a missing row to ErrNotFound and wraps anything else.
func lookupErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

func forbidden(action string) error {
	return errors.Wrap(ErrUnauthorized, action)
}
