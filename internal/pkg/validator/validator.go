package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Carrier network validation
	validate.RegisterValidation("network", func(fl validator.FieldLevel) bool {
		network := fl.Field().String()
		validNetworks := []string{"telenor", "jazz", "zong", "ufone"}
		for _, n := range validNetworks {
			if network == n {
				return true
			}
		}
		return false
	})

	// Pakistani mobile number: at least 10 digits, separators tolerated
	validate.RegisterValidation("pk_phone", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case r == ' ' || r == '-' || r == '+' || r == '(' || r == ')':
			default:
				return false
			}
		}
		return digits >= 10
	})

	// Video source validation
	validate.RegisterValidation("video_source", func(fl validator.FieldLevel) bool {
		source := fl.Field().String()
		return source == "embed" || source == "upload"
	})

	// Price must be a plain non-negative integer string (no free-form text)
	validate.RegisterValidation("int_price", func(fl validator.FieldLevel) bool {
		price := fl.Field().String()
		if price == "" {
			return false
		}
		for _, r := range price {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "network":
			errors[field] = "Invalid network. Must be: telenor, jazz, zong, or ufone"
		case "pk_phone":
			errors[field] = "Invalid phone number. At least 10 digits required"
		case "video_source":
			errors[field] = "Invalid source. Must be: embed or upload"
		case "int_price":
			errors[field] = "Price must be a whole number"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
