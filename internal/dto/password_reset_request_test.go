package dto

import (
	"strings"
	"testing"

	"password-reset/internal/validation"

	"github.com/stretchr/testify/require"
)

func resetMessages(t *testing.T, req PasswordResetRequest) []string {
	t.Helper()
	_, err := ValidatePasswordReset(req)
	if err == nil {
		return nil
	}
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	return errs.Messages()
}

func TestValidatePasswordResetScenarios(t *testing.T) {
	cases := []struct {
		name string
		req  PasswordResetRequest
		want []string
	}{
		{
			name: "valid",
			req:  PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Str0ng!Pw", OTP: "123456"},
		},
		{
			name: "weak password",
			req:  PasswordResetRequest{NewPassword: "weak", ConfirmNewPassword: "weak", OTP: "123456"},
			want: []string{"weak password"},
		},
		{
			name: "mismatch",
			req:  PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Different1!", OTP: "123456"},
			want: []string{"passwords do not match"},
		},
		{
			name: "short otp",
			req:  PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Str0ng!Pw", OTP: "12345"},
			want: []string{"otp must be 6 characters"},
		},
		{
			name: "weak and short otp",
			req:  PasswordResetRequest{NewPassword: "weak", ConfirmNewPassword: "weak", OTP: "12"},
			want: []string{"weak password", "otp must be 6 characters"},
		},
		{
			name: "everything wrong",
			req:  PasswordResetRequest{NewPassword: "weak", ConfirmNewPassword: "other", OTP: "1234567"},
			want: []string{"weak password", "passwords do not match", "otp must be 6 characters"},
		},
		{
			name: "empty body",
			req:  PasswordResetRequest{},
			want: []string{"weak password", "otp must be 6 characters"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, resetMessages(t, tc.req))
		})
	}
}

func TestValidatePasswordResetSuccessCarriesFields(t *testing.T) {
	req := PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Str0ng!Pw", OTP: "abc!@#"}
	got, err := ValidatePasswordReset(req)
	require.NoError(t, err)
	require.Equal(t, ValidatedPasswordReset{
		NewPassword:        "Str0ng!Pw",
		ConfirmNewPassword: "Str0ng!Pw",
		OTP:                "abc!@#",
	}, got)
}

func TestShortPasswordAlwaysWeak(t *testing.T) {
	for n := 0; n < 8; n++ {
		pw := strings.Repeat("A", n/2) + strings.Repeat("1", n-n/2)
		if n >= 4 {
			pw = "Aa1!" + strings.Repeat("x", n-4)
		}
		_, err := ValidatePasswordReset(PasswordResetRequest{NewPassword: pw, ConfirmNewPassword: pw, OTP: "123456"})
		require.ErrorIs(t, err, validation.ErrWeakPassword, "length %d", n)
	}
}

func TestMismatchRuleGuard(t *testing.T) {
	// confirmation left out: the mismatch rule does not run
	_, err := ValidatePasswordReset(PasswordResetRequest{NewPassword: "Str0ng!Pw", OTP: "123456"})
	require.NoError(t, err)

	// new password left out: only the strength rule reports
	msgs := resetMessages(t, PasswordResetRequest{ConfirmNewPassword: "Str0ng!Pw", OTP: "123456"})
	require.Equal(t, []string{"weak password"}, msgs)

	// both present and different
	_, err = ValidatePasswordReset(PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Str0ng!pw", OTP: "123456"})
	require.ErrorIs(t, err, validation.ErrPasswordMismatch)
	require.NotErrorIs(t, err, validation.ErrWeakPassword)
}

func TestOTPLengthRule(t *testing.T) {
	for _, otp := range []string{"", "1", "12345", "1234567", "12345678"} {
		_, err := ValidatePasswordReset(PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Str0ng!Pw", OTP: otp})
		require.ErrorIs(t, err, validation.ErrInvalidOTPLength, "otp %q", otp)
	}
}

func TestValidatePasswordResetIdempotent(t *testing.T) {
	req := PasswordResetRequest{NewPassword: "weak", ConfirmNewPassword: "nope", OTP: "1"}
	_, first := ValidatePasswordReset(req)
	_, second := ValidatePasswordReset(req)
	require.Equal(t, first, second)
	require.Equal(t, req.Validate(), first)
}

func TestPasswordResetRulesCustomPolicy(t *testing.T) {
	rules := PasswordResetRules(validation.DefaultPasswordPolicy().WithMinLength(12))
	req := PasswordResetRequest{NewPassword: "Str0ng!Pw", ConfirmNewPassword: "Str0ng!Pw", OTP: "123456"}

	_, err := ValidatePasswordResetWith(rules, req)
	require.ErrorIs(t, err, validation.ErrWeakPassword)

	req.NewPassword, req.ConfirmNewPassword = "Str0ng!Pw1234", "Str0ng!Pw1234"
	_, err = ValidatePasswordResetWith(rules, req)
	require.NoError(t, err)
}

func TestPasswordResetThroughEchoValidator(t *testing.T) {
	v := validation.New()
	err := v.Validate(&PasswordResetRequest{NewPassword: "weak", ConfirmNewPassword: "weak", OTP: "12"})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Equal(t, "newPassword", errs[0].Field)
	require.Equal(t, "otp", errs[1].Field)
}
