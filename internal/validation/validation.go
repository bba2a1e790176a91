// Package validation checks insert payloads before they reach the store. It
// wraps go-playground/validator with the marketplace's custom tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"primenest/pkg/domain"
)

// Error lists per-field failures keyed by the JSON field name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator validates domain insert shapes.
type Validator struct {
	validate *validator.Validate
}

// New constructs a Validator with the decimal, notblank, property_status and
// property_type tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "decimal", func(fl validator.FieldLevel) bool {
		return IsDecimal(fl.Field().String())
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "property_status", func(fl validator.FieldLevel) bool {
		return domain.PropertyStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "property_type", func(fl validator.FieldLevel) bool {
		return domain.PropertyType(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// IsDecimal reports whether s is a non-negative decimal such as "1800000" or "3.5".
func IsDecimal(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// Struct validates in and returns *Error on field failures.
func (v *Validator) Struct(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fieldPath(fe)] = message(fe)
	}
	return out
}

// Validate implements echo.Validator.
func (v *Validator) Validate(in any) error { return v.Struct(in) }

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "decimal":
		return "must be a non-negative decimal"
	case "property_status":
		return fmt.Sprintf("must be one of %q, %q", domain.PropertyStatusForSale, domain.PropertyStatusForRent)
	case "property_type":
		return fmt.Sprintf("must be non-blank text of at most %d characters", domain.MaxPropertyTypeLength)
	case "notblank":
		return "must not be blank"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return "must be at least " + fe.Param() + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return "must have at least " + fe.Param() + " entries"
		default:
			return "must be at least " + fe.Param()
		}
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
