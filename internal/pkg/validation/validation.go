package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
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
	return v
}

// Struct validates s and returns field-keyed messages, nil when valid
func Struct(s interface{}) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"non_field_errors": {err.Error()}}
	}

	fields := make(map[string][]string, len(errs))
	for _, fe := range errs {
		key := fieldKey(fe.Namespace())
		fields[key] = append(fields[key], message(fe))
	}
	return fields
}

// fieldKey drops the root struct name from a namespace
// ("CreateOfferInput.details[0].price" -> "details[0].price")
func fieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("Ensure this field has at least %s items.", fe.Param())
		case reflect.String:
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max", "lte":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("Ensure this field has no more than %s items.", fe.Param())
		case reflect.String:
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	}
	return "Invalid value."
}
