package validation

import (
	"github.com/go-playground/validator/v10"
)

// Registrar is implemented by platform/validator.Validator.
type Registrar interface {
	RegisterValidation(tag string, fn validator.Func) error
}

// RegisterTags adds the personname and safetext struct tags.
func RegisterTags(r Registrar) error {
	if err := r.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return ValidateName(fl.Field().String())
	}); err != nil {
		return err
	}
	return r.RegisterValidation("safetext", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || ValidateMessage(value)
	})
}
