// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/resumes/internal/validation"
)

// SetPasswordRequest contains the parameters for protecting a resume with a password.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// Validate checks if the set password request is valid.
func (r *SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(4, 64),
		),
	)
}

// VerifyPasswordRequest contains a password attempt against a protected resume.
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

// Validate checks if the verify password request is valid.
func (r *VerifyPasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 64),
		),
	)
}
