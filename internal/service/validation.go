package service

import (
	"reflect"
	"strings"

	"gopkg.in/go-playground/validator.v9"

	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// newValidator builds a validator that reports fields by their json name.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return validate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validationFailure converts validator output into a VALIDATION_FAILED error
// whose details map each offending field to the rule it broke.
func validationFailure(message string, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(validationErrors))
	for _, fe := range validationErrors {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[fieldPath(fe.Namespace())] = rule
	}
	return apperrors.NewValidationError(message, details)
}

// fieldPath drops the struct name prefix from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
