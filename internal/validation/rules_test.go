package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/resumes/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	t.Run("NilStaysNil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(validation.NewError("validation_not_blank", "must not be blank"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "must not be blank")
	})
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "Valid", value: "hello", wantErr: false},
		{name: "Empty", value: "", wantErr: false}, // Required handles empty
		{name: "OnlySpaces", value: "   ", wantErr: true},
		{name: "OnlyTabs", value: "\t\n", wantErr: true},
		{name: "Padded", value: " hello ", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, NotBlank)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "Simple", value: "resume", wantErr: false},
		{name: "Hyphenated", value: "backend-engineer-2024", wantErr: false},
		{name: "Digits", value: "v2", wantErr: false},
		{name: "Uppercase", value: "Backend", wantErr: true},
		{name: "Spaces", value: "backend engineer", wantErr: true},
		{name: "LeadingHyphen", value: "-backend", wantErr: true},
		{name: "TrailingHyphen", value: "backend-", wantErr: true},
		{name: "DoubleHyphen", value: "backend--engineer", wantErr: true},
		{name: "Slash", value: "a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, Slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
