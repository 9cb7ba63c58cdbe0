// Package validation checks submitted forms before any backend call and reports
// failures per form field, in French, the way the dashboard displays them.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Merge appends other's messages, typically the backend's 422 field errors.
func (fe FieldErrors) Merge(other map[string][]string) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

var (
	validate   = newValidator()
	phoneRegex = regexp.MustCompile(`^[0-9+\s().-]{6,20}$`)
)

const passwordMinLength = 8

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return v
}

// StrongPassword requires a minimum length plus an uppercase letter, a digit and a special character.
func StrongPassword(s string) bool {
	if len([]rune(s)) < passwordMinLength {
		return false
	}
	var upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && digit && special
}

// Struct validates v and returns nil when it is valid.
func Struct(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_form": {err.Error()}}
	}
	fe := FieldErrors{}
	for _, e := range verrs {
		fe.Add(fieldName(e.Field()), message(e))
	}
	return fe
}

// fieldName strips dive indexes: "documents[2]" reports under "documents".
func fieldName(f string) string {
	if i := strings.IndexByte(f, '['); i >= 0 {
		return f[:i]
	}
	return f
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Ce champ est requis."
	case "email":
		return "Adresse e-mail invalide."
	case "url", "http_url":
		return "URL invalide."
	case "password":
		return "Le mot de passe doit contenir au moins 8 caractères, une majuscule, un chiffre et un caractère spécial."
	case "phone":
		return "Numéro de téléphone invalide."
	case "oneof":
		return "Valeur non autorisée."
	case "min", "gte":
		switch e.Kind() {
		case reflect.String:
			return fmt.Sprintf("Doit contenir au moins %s caractères.", e.Param())
		case reflect.Slice:
			return fmt.Sprintf("Au moins %s éléments.", e.Param())
		default:
			return fmt.Sprintf("Doit être supérieur ou égal à %s.", e.Param())
		}
	case "max", "lte":
		switch e.Kind() {
		case reflect.String:
			return fmt.Sprintf("Doit contenir au plus %s caractères.", e.Param())
		case reflect.Slice:
			return fmt.Sprintf("Au plus %s éléments.", e.Param())
		default:
			return fmt.Sprintf("Doit être inférieur ou égal à %s.", e.Param())
		}
	case "gt":
		return fmt.Sprintf("Doit être supérieur à %s.", e.Param())
	default:
		return "Valeur invalide."
	}
}
