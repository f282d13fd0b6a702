package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"backend-antrian-pst/internal/apperr"
)

// FieldError is one entry of a validation error's details.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// phonePattern accepts Indonesian mobile numbers: 08xx, 628xx or +628xx,
// digits only.
var phonePattern = regexp.MustCompile(`^(\+62|62|0)8[0-9]{7,12}$`)

// NewValidator reports field names by their json tag and registers the
// "phone" rule.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("data tidak valid")
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return apperr.Validation("data tidak valid").WithDetails(fields)
}
