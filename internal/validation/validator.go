// Package validation wraps go-playground/validator with a shared instance,
// the custom rules this API needs, and readable field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/bioweb/backend/internal/model"
)

// Limits for the comma separated technologies list on projects.
const (
	MaxTechnologies      = 5
	MaxTechnologyLength  = 50
	technologiesTag      = "technologies"
	technologiesFallback = "must list at most 5 technologies of at most 50 characters each"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed rule of one struct.
type RequestValidationError struct {
	errors []FieldError
}

// NewRequestValidationError builds an error from already formatted messages.
func NewRequestValidationError(fields ...FieldError) *RequestValidationError {
	return &RequestValidationError{errors: fields}
}

func (ve *RequestValidationError) Errors() []FieldError { return ve.errors }

// Messages returns one human readable line per failed rule.
func (ve *RequestValidationError) Messages() []string {
	out := make([]string, 0, len(ve.errors))
	for _, e := range ve.errors {
		out = append(out, e.Message)
	}
	return out
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.Messages(), "; ")
}

// GetValidator returns the shared validator. Field names in messages follow
// the json tag when one is present.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := validate.RegisterValidation(technologiesTag, func(fl validator.FieldLevel) bool {
			return Technologies(fl.Field().String()) == nil
		}); err != nil {
			panic(fmt.Sprintf("register %s validator: %v", technologiesTag, err))
		}
	})
	return validate
}

// ValidateStruct returns nil or a *RequestValidationError.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return &RequestValidationError{errors: out}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url", "http_url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, fe.Param())
	case technologiesTag:
		if err := Technologies(fe.Value().(string)); err != nil {
			return field + ": " + err.Error()
		}
		return field + " " + technologiesFallback
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Technologies checks a comma separated list: blank entries are ignored, at
// most MaxTechnologies remain, each at most MaxTechnologyLength characters
// after trimming.
func Technologies(s string) error {
	items := model.SplitTechnologies(s)
	if len(items) > MaxTechnologies {
		return fmt.Errorf("at most %d technologies are allowed, got %d", MaxTechnologies, len(items))
	}
	for _, item := range items {
		if n := len([]rune(item)); n > MaxTechnologyLength {
			return fmt.Errorf("technology %q is %d characters, maximum is %d", item, n, MaxTechnologyLength)
		}
	}
	return nil
}
