package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("phone", validatePhone); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("password", validatePassword); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validatePassword counts bytes, not runes: bcrypt rejects longer input.
func validatePassword(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordBytes
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailPattern.MatchString(email)
}

// ValidationMessages flattens validator errors into field -> message pairs.
func ValidationMessages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	messages := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "notblank":
			messages[field] = "This field is required."
		case "email":
			messages[field] = "Enter a valid email address."
		case "phone":
			messages[field] = "Enter a valid mobile number."
		case "password":
			messages[field] = fmt.Sprintf("Ensure this value is at most %d bytes.", MaxPasswordBytes)
		case "min", "gte":
			messages[field] = fmt.Sprintf("Ensure this value is at least %s.", fe.Param())
		case "max", "lte":
			messages[field] = fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		default:
			messages[field] = fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
		}
	}
	return messages
}
