package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type FieldErrors map[string]string

// Messages overrides the generic message per field key.
type Messages map[string]string

var (
	once sync.Once
	v    *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return tagName(f)
		})
	})
	return v
}

// Struct validates s and returns nil when it is valid.
func Struct(s any, msgs Messages) FieldErrors {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}
	return FromBindError(err, s, msgs)
}

// FromBindError maps a bind/validation error to field -> message.
// dst is the bound struct pointer, used to read field tags.
func FromBindError(err error, dst any, msgs Messages) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			key := fieldKey(dst, fe.StructField())
			if _, seen := out[key]; seen {
				continue
			}
			if m, ok := msgs[key]; ok {
				out[key] = m
				continue
			}
			out[key] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	// type mismatch, malformed JSON etc.
	out["_"] = "Invalid request data."
	return out
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}

	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	if tag := tagName(f); tag != "" {
		return tag
	}
	return strings.ToLower(structField)
}

// tagName prefers the json tag, then the form tag.
func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		tag := f.Tag.Get(key)
		if i := strings.Index(tag, ","); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return ""
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return "Must be at least " + param + " characters."
	case "max":
		return "Must be at most " + param + " characters."
	case "gt", "gte":
		return "Must be greater than " + param + "."
	case "numeric", "number":
		return "Must be a number."
	default:
		return "Invalid value."
	}
}
