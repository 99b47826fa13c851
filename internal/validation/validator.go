package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is one entry of a "missingFields" list.
type Violation struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Valuer lets wrapper types (optional strings, flags) validate as their plain value.
type Valuer interface {
	ValidationValue() interface{}
}

type Validator struct {
	v *validator.Validate
}

func New(customTypes ...Valuer) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	for _, ct := range customTypes {
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if val, ok := field.Interface().(Valuer); ok {
				return val.ValidationValue()
			}
			return nil
		}, ct)
	}

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Violations validates s and returns one entry per failing field, in field order.
// Nested fields are reported with dotted json names ("faqs.title"). Messages are
// looked up by that name; unknown names get "<name> is required" or "<name> is invalid".
func (v *Validator) Violations(s interface{}, messages map[string]string) []Violation {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	errs := v.ValidationErrors(err)
	if errs == nil {
		return []Violation{{Name: "body", Message: err.Error()}}
	}

	out := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		name := fieldPath(fe.Namespace())
		msg, ok := messages[name]
		if !ok {
			msg = defaultMessage(name, fe.Tag())
		}
		out = append(out, Violation{Name: name, Message: msg})
	}
	return out
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func defaultMessage(name, tag string) string {
	switch tag {
	case "required", "required_if":
		return name + " is required"
	default:
		return name + " is invalid"
	}
}
