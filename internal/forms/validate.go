package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/five82/plusultra/internal/library"
)

// MinReleaseYear is the earliest release year accepted for a game.
const MinReleaseYear = 1970

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the client-side rule failures of a form. A form that
// fails validation never reaches the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}

// First returns the first failure message, which is what the UI shows.
func (e *ValidationError) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Message
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	mustRegister(v, "genre", func(fl validator.FieldLevel) bool {
		return library.IsGenre(fl.Field().String())
	})
	mustRegister(v, "platform", func(fl validator.FieldLevel) bool {
		return library.IsPlatform(fl.Field().String())
	})
	mustRegister(v, "difficulty", func(fl validator.FieldLevel) bool {
		return library.IsDifficulty(fl.Field().String())
	})
	mustRegister(v, "releaseyear", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= MinReleaseYear && year <= int64(time.Now().Year())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// check runs the struct rules on s and converts failures to *ValidationError.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.StructField(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " es obligatorio."
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s debe tener al menos %s caracteres.", field, param)
		}
		return fmt.Sprintf("%s debe ser al menos %s.", field, param)
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s admite como máximo %s caracteres.", field, param)
		}
		return fmt.Sprintf("%s debe ser como máximo %s.", field, param)
	case "email":
		return field + " no es un correo válido."
	case "url":
		return field + " debe ser una URL válida."
	case "eqfield":
		return "Las contraseñas no coinciden."
	case "genre", "platform", "difficulty", "oneof":
		return field + " no es una opción válida."
	case "releaseyear":
		return fmt.Sprintf("%s debe estar entre %d y %d.", field, MinReleaseYear, time.Now().Year())
	default:
		return field + " no es válido."
	}
}
