package validator

import (
	"regexp"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// EmailRX matches the address shape accepted for readers and staff.
	EmailRX = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// PhoneRX matches numbers such as +(123) 456-7890 or 123.456.78901.
	PhoneRX = regexp.MustCompile(`^[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}$`)
)

// Validator holds a map of validation errors keyed by field name.
type Validator struct {
	Errors map[string]string
}

// New returns a Validator with an empty errors map.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid reports whether the errors map is empty.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error message for key, keeping the first message recorded.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error message only if a validation check is not ok.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// In reports whether value is in the list of permitted values.
func In[T comparable](value T, list ...T) bool {
	return slices.Contains(list, value)
}

// Matches reports whether value matches the regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// Unique reports whether all values in the slice are unique.
func Unique[T comparable](values []T) bool {
	uniqueValues := make(map[T]bool, len(values))
	for _, value := range values {
		uniqueValues[value] = true
	}
	return len(values) == len(uniqueValues)
}

// Mime reports whether the detected type is one of the permitted types.
func Mime(mtype *mimetype.MIME, permitted ...string) bool {
	return mimetype.EqualsAny(mtype.String(), permitted...)
}
