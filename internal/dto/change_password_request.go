// File: internal/dto/change_password_request.go
package dto

import (
	"errors"

	"password-reset/internal/validation"
)

var ErrOldPasswordRequired = errors.New("old password is required")

// swagger:model dto.ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword        string `json:"oldPassword" example:"OldSecret123!"`
	NewPassword        string `json:"newPassword" example:"NewSecret456!"`
	ConfirmNewPassword string `json:"confirmNewPassword" example:"NewSecret456!"`
}

func changeOldPassword(r ChangePasswordRequest) string     { return r.OldPassword }
func changeNewPassword(r ChangePasswordRequest) string     { return r.NewPassword }
func changeConfirmPassword(r ChangePasswordRequest) string { return r.ConfirmNewPassword }

var changePasswordRules = validation.Rules[ChangePasswordRequest]{
	{
		Field: "oldPassword",
		Check: validation.Required(changeOldPassword),
		Err:   ErrOldPasswordRequired,
	},
	{
		Field: "newPassword",
		Check: validation.StrongPassword(changeNewPassword, validation.DefaultPasswordPolicy()),
		Err:   validation.ErrWeakPassword,
	},
	{
		Field: "confirmNewPassword",
		Guard: validation.Present(changeNewPassword, changeConfirmPassword),
		Check: validation.IsMatching(changeConfirmPassword, changeNewPassword),
		Err:   validation.ErrPasswordMismatch,
	},
}

func (r ChangePasswordRequest) Validate() error {
	return changePasswordRules.Validate(r)
}
