package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name string
		v    *StringValidation
		want bool
	}{
		{"required empty", NewStringValidation(""), false},
		{"required blank", NewStringValidation("   "), false},
		{"optional empty", NewStringValidation("").WithRequired(false).WithMinLength(3), true},
		{"too long", NewStringValidation(strings.Repeat("a", 2001)).WithMaxLength(2000), false},
		{"multibyte at limit", NewStringValidation(strings.Repeat("é", 2000)).WithMaxLength(2000), true},
		{"pattern ok", NewStringValidation("a@b.io").WithPattern(CompiledPatterns.Email), true},
		{"pattern fail", NewStringValidation("nope").WithPattern(CompiledPatterns.Email), false},
		{"video url", NewStringValidation("https://youtu.be/x").WithPattern(CompiledPatterns.VideoURL), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Validate())
		})
	}
}

func TestNumericValidation(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		assert.Equal(t, want, NewNumericValidation(rating).WithMin(1).WithMax(5).Validate(), rating)
	}
}

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	errs.Check(true, "title", "required")
	assert.True(t, errs.Valid())

	errs.Check(false, "rating", "first")
	errs.Check(false, "rating", "second")
	assert.False(t, errs.Valid())
	assert.Equal(t, "first", errs["rating"])
}
