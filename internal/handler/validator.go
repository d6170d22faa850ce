package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo so handlers can
// call c.Validate on bound request bodies.  Field errors are keyed by the
// json name of the offending field.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator returns an echo.Validator for request DTOs.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = validationMessage(fe)
	}
	return &requestError{msg: "invalid request fields", fields: fields}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// requestError is a malformed or invalid request body.
type requestError struct {
	msg    string
	fields map[string]string
}

func (e *requestError) Error() string { return e.msg }

// bindBody binds the JSON body into dst and validates it.  Any failure is
// returned as *requestError.
func bindBody(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return &requestError{msg: "invalid request body"}
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(dst); err != nil {
		var re *requestError
		if errors.As(err, &re) {
			return re
		}
		return &requestError{msg: err.Error()}
	}
	return nil
}
