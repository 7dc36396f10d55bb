package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "Valid", password: "hunter2", wantErr: false},
		{name: "MinimumLength", password: "abcd", wantErr: false},
		{name: "TooShort", password: "abc", wantErr: true},
		{name: "TooLong", password: strings.Repeat("a", 65), wantErr: true},
		{name: "Empty", password: "", wantErr: true},
		{name: "Blank", password: "     ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SetPasswordRequest{Password: tt.password}
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyPasswordRequest_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := VerifyPasswordRequest{Password: "x"}
		assert.NoError(t, req.Validate())
	})

	t.Run("Empty", func(t *testing.T) {
		req := VerifyPasswordRequest{}
		assert.Error(t, req.Validate())
	})

	t.Run("TooLong", func(t *testing.T) {
		req := VerifyPasswordRequest{Password: strings.Repeat("a", 65)}
		assert.Error(t, req.Validate())
	})
}
