package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"churchcms/models"
)

// RegisterCustomValidators installs the model validation tags on gin's binding
// engine and makes it report JSON field names.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	models.RegisterValidations(v)
}

// BindingDetails describes a gin binding error field by field.
func BindingDetails(err error) []string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			out = append(out, fe.Field()+" is required")
		case "email":
			out = append(out, fe.Field()+" must be a valid email address")
		default:
			out = append(out, fe.Field()+" is invalid")
		}
	}
	return out
}
