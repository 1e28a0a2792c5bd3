package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Japanese landline or mobile number, hyphens optional
	PhonePattern = `^0\d{1,4}-?\d{1,4}-?\d{3,4}$`

	// Name validation max length
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// IsPhoneNumber reports whether s is a valid phone number with 10 or 11 digits
func IsPhoneNumber(s string) bool {
	digits := strings.ReplaceAll(s, "-", "")
	if len(digits) < 10 || len(digits) > 11 {
		return false
	}
	return CompiledPatterns.Phone.MatchString(s)
}

// New returns a validator with the custom rules registered
func New() *validator.Validate {
	v := validator.New()
	RegisterRules(v)
	return v
}

// RegisterRules adds the custom tags used by request and profile structs:
// "tel" for phone numbers and "notblank" for strings that must contain a non-space rune.
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("tel", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
