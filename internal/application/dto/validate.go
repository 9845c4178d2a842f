package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/taskhub-api/internal/domain"
)

var subdomainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return IsValidSubdomain(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		n, ok := field.Interface().(Nullable[string])
		if !ok || n.Value == nil {
			return nil
		}
		return *n.Value
	}, Nullable[string]{})
	return v
}

// IsValidSubdomain 3 a 63 caracteres, minúsculas, dígitos y guiones, sin guion al inicio ni al final.
func IsValidSubdomain(s string) bool {
	s = strings.ToLower(s)
	return len(s) >= 3 && len(s) <= 63 && subdomainRe.MatchString(s)
}

// IsStrongPassword al menos 8 caracteres con mayúscula, minúscula y dígito.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// Validate aplica las etiquetas validate del struct. Los mensajes salen de la etiqueta
// errmsg del campo; sin ella se usa un mensaje genérico con el nombre JSON.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(err.Error())
	}
	t := reflect.TypeOf(in)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	seen := make(map[string]bool, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " es inválido"
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if m := f.Tag.Get("errmsg"); m != "" {
				msg = m
			}
		}
		if !seen[msg] {
			seen[msg] = true
			msgs = append(msgs, msg)
		}
	}
	return domain.Invalid(msgs...)
}
