package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validRoles = map[string]bool{
	RoleAdmin:  true,
	RoleEditor: true,
	RolePastor: true,
	RoleViewer: true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names in details
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Date validates as its wrapped time so "required" means non-zero
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})
	RegisterValidations(v)
	return v
}

// RegisterValidations installs the custom tags used by the models on v.
// The gin binding engine gets the same set so tags behave identically there.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsValidSlug(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return validRoles[fl.Field().String()]
	})
}

// IsValidSlug reports whether s is lowercase words joined by single hyphens.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r string) bool {
	return validRoles[r]
}

// Validate checks v's struct tags and returns a ValidationError listing every
// failing field, or nil.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return NewValidationError("invalid input", err.Error())
	}
	details := make([]string, 0, len(ve))
	for _, fe := range ve {
		details = append(details, describeFieldError(fe))
	}
	return NewValidationError("validation failed", details...)
}

func describeFieldError(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "slug":
		return field + " must contain only lowercase letters, numbers and hyphens"
	case "role":
		return field + " must be one of admin, editor, pastor, viewer"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// fieldPath drops the top-level struct name from the namespace: "Navbar.items[0].label" -> "items[0].label".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
