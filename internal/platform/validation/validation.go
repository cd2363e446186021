// Package validation holds the field-scoped outcome types shared by the domain
// validators, and a thin wrapper over go-playground/validator for the
// declarative struct-tag rules.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// FieldError is a validation failure tied to one named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Outcome is either success (Error nil) or a field error.
type Outcome struct {
	Error *FieldError
}

func OK() Outcome { return Outcome{} }

func Fail(field, message string) Outcome {
	return Outcome{Error: &FieldError{Field: field, Message: message}}
}

func (o Outcome) IsOK() bool { return o.Error == nil }

// Errors returns the field errors among outcomes, in emission order.
func Errors(outcomes []Outcome) []FieldError {
	var out []FieldError
	for _, o := range outcomes {
		if o.Error != nil {
			out = append(out, *o.Error)
		}
	}
	return out
}

// Error rejects a record as a whole, carrying every field error found.
type Error struct {
	Fields []FieldError
}

func NewError(fields ...FieldError) *Error {
	return &Error{Fields: fields}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HTTPError renders e as a 422 response body of the form
// {"message": ..., "errors": [{"field", "message"}]}.
func (e *Error) HTTPError() *echo.HTTPError {
	fields := e.Fields
	if fields == nil {
		fields = []FieldError{}
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "validation failed",
		"errors":  fields,
	})
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct checks the `validate` tags on v and returns one FieldError per
// failing field. Field names are the json names.
func Struct(v interface{}) []FieldError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Check is Struct returning a *Error, or nil when v is valid.
func Check(v interface{}) error {
	if fields := Struct(v); len(fields) > 0 {
		return NewError(fields...)
	}
	return nil
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "alpha":
		return label + " must contain letters only"
	case "numeric":
		return label + " must contain digits only"
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", label, fe.Param())
	default:
		return label + " is invalid"
	}
}

// Label turns a json field name into a display label: "first_name" becomes
// "First Name".
func Label(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
