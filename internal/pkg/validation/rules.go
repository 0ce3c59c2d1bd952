package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Usernames are 3-30 word characters, dots or hyphens
	UsernamePattern = `^[a-zA-Z0-9_.\-]{3,30}$`

	// VideoURLPattern accepts http(s) links only
	VideoURLPattern = `^https?://\S+$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100

	TitleMaxLength = 250
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Username *regexp.Regexp
	VideoURL *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Username: regexp.MustCompile(UsernamePattern),
	VideoURL: regexp.MustCompile(VideoURLPattern),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	// Whitespace-only counts as empty for required fields
	if v.Required && strings.TrimSpace(v.Value) == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	// Lengths count characters, not bytes
	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	// Check pattern
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// Numeric validation
type NumericValidation struct {
	Value    int
	Min      int
	Max      int
	Required bool
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{
		Value:    value,
		Required: true,
	}
}

// WithMin sets minimum value
func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

// WithMax sets maximum value
func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// WithRequired sets if field is required
func (v *NumericValidation) WithRequired(required bool) *NumericValidation {
	v.Required = required
	return v
}

// Validate performs validation; a zero Min or Max leaves that side unbounded
func (v *NumericValidation) Validate() bool {
	if v.Required && v.Value == 0 && v.Min > 0 {
		return false
	}

	if v.Min != 0 && v.Value < v.Min {
		return false
	}

	if v.Max != 0 && v.Value > v.Max {
		return false
	}

	return true
}

// FieldErrors collects per-field failures for one form
type FieldErrors map[string]string

// Check records message under field when ok is false
func (f FieldErrors) Check(ok bool, field, message string) {
	if !ok {
		if _, exists := f[field]; !exists {
			f[field] = message
		}
	}
}

// Valid reports whether no field failed
func (f FieldErrors) Valid() bool {
	return len(f) == 0
}
