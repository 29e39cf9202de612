package validation

import (
	"errors"
	"reflect"
	"strings"

	"learn-assist/internal/domain"
	"learn-assist/internal/util"

	"github.com/go-playground/validator/v10"
)

// Validator checks request DTOs against their `validate` tags and reports
// failures as domain validation errors keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		return util.IsULID(fl.Field().String())
	})
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return domain.Level(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

// Struct validates s. It returns nil when every rule passes.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewFieldError("body", err.Error())}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toDomainError(fe))
	}
	return out
}

// ValidateULID checks a path identifier such as a preview or registration id.
func (v *Validator) ValidateULID(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !util.IsULID(value) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}

func toDomainError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return domain.NewMissingFieldError(field)
	case "email", "ulid", "oneof", "level":
		return domain.NewInvalidFormatError(field, fe.Value())
	case "min", "max", "gte", "lte", "gt", "lt":
		return domain.NewFieldError(field, field+" must be "+describeBound(fe))
	case "eqfield":
		return domain.NewFieldError(field, field+" must match "+fe.Param())
	}
	return domain.NewInvalidFormatError(field, fe.Value())
}

func describeBound(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "min", "gte":
		return "at least " + fe.Param() + unit
	case "max", "lte":
		return "at most " + fe.Param() + unit
	case "gt":
		return "greater than " + fe.Param()
	}
	return "less than " + fe.Param()
}
