// Package validate holds the shared go-playground validator. Field names in
// errors are JSON names.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MinPhoneDigits is how many digits the "phone" tag requires.
const MinPhoneDigits = 10

var (
	skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]{0,63}$`)
	std        = New()
)

// New builds a validator with the storefront's custom tags:
//
//	sku      product SKU characters
//	phone    at least MinPhoneDigits digits, any punctuation
//	notblank not empty after trimming spaces
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return countDigits(fl.Field().String()) >= MinPhoneDigits
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Default is the shared instance. It is safe for concurrent use.
func Default() *validator.Validate {
	return std
}

// Errors unpacks validator.ValidationErrors. Any other non-nil error comes
// back as ok=false.
func Errors(err error) (validator.ValidationErrors, bool) {
	if err == nil {
		return nil, true
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
