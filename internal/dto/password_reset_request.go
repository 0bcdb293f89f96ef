// File: internal/dto/password_reset_request.go
package dto

import "password-reset/internal/validation"

// OTPLength 一次性驗證碼的固定長度
const OTPLength = 6

// PasswordResetRequest 以驗證碼重設密碼的請求內容
// swagger:model dto.PasswordResetRequest
type PasswordResetRequest struct {
	NewPassword        string `json:"newPassword" example:"Str0ng!Pw"`
	ConfirmNewPassword string `json:"confirmNewPassword" example:"Str0ng!Pw"`
	OTP                string `json:"otp" example:"123456"`
}

// ValidatedPasswordReset 通過結構驗證的重設請求，可交給後續流程使用
type ValidatedPasswordReset struct {
	NewPassword        string
	ConfirmNewPassword string
	OTP                string
}

func resetNewPassword(r PasswordResetRequest) string     { return r.NewPassword }
func resetConfirmPassword(r PasswordResetRequest) string { return r.ConfirmNewPassword }
func resetOTP(r PasswordResetRequest) string             { return r.OTP }

// PasswordResetRules 依密碼政策建立重設請求的規則表
func PasswordResetRules(policy validation.PasswordPolicy) validation.Rules[PasswordResetRequest] {
	return validation.Rules[PasswordResetRequest]{
		{
			Field: "newPassword",
			Check: validation.StrongPassword(resetNewPassword, policy),
			Err:   validation.ErrWeakPassword,
		},
		{
			Field: "confirmNewPassword",
			Guard: validation.Present(resetNewPassword, resetConfirmPassword),
			Check: validation.IsMatching(resetConfirmPassword, resetNewPassword),
			Err:   validation.ErrPasswordMismatch,
		},
		{
			Field: "otp",
			Check: validation.Length(resetOTP, OTPLength),
			Err:   validation.ErrInvalidOTPLength,
		},
	}
}

var passwordResetRules = PasswordResetRules(validation.DefaultPasswordPolicy())

// Validate 以預設政策驗證，實作 validation.Validatable
func (r PasswordResetRequest) Validate() error {
	return passwordResetRules.Validate(r)
}

// ValidatePasswordReset 驗證請求並回傳可信任的值物件；失敗時回傳 validation.Errors
func ValidatePasswordReset(r PasswordResetRequest) (ValidatedPasswordReset, error) {
	return ValidatePasswordResetWith(passwordResetRules, r)
}

// ValidatePasswordResetWith 使用自訂規則表驗證
func ValidatePasswordResetWith(rules validation.Rules[PasswordResetRequest], r PasswordResetRequest) (ValidatedPasswordReset, error) {
	if err := rules.Validate(r); err != nil {
		return ValidatedPasswordReset{}, err
	}
	return ValidatedPasswordReset{
		NewPassword:        r.NewPassword,
		ConfirmNewPassword: r.ConfirmNewPassword,
		OTP:                r.OTP,
	}, nil
}
