// File: internal/validation/password.go
package validation

import "strings"

// passwordSymbols 視為符號的字元 (含空白)
const passwordSymbols = "-#!$@£%^&*()_+|~=`{}[]:\";'<>?,./\\ "

// PasswordPolicy 強密碼政策；長度以字元 (rune) 計算
type PasswordPolicy struct {
	MinLength    int
	MinLowercase int
	MinUppercase int
	MinNumbers   int
	MinSymbols   int
}

// DefaultPasswordPolicy 至少 8 個字元，大寫、小寫、數字、符號各一
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:    8,
		MinLowercase: 1,
		MinUppercase: 1,
		MinNumbers:   1,
		MinSymbols:   1,
	}
}

// WithMinLength 回傳只調整最小長度的政策副本
func (p PasswordPolicy) WithMinLength(n int) PasswordPolicy {
	p.MinLength = n
	return p
}

// Allows 判斷密碼是否符合政策
func (p PasswordPolicy) Allows(password string) bool {
	if validate.Var(password, minLengthTag(p.MinLength)) != nil {
		return false
	}

	var lower, upper, numbers, symbols int
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower++
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= '0' && r <= '9':
			numbers++
		case strings.ContainsRune(passwordSymbols, r):
			symbols++
		}
	}

	return lower >= p.MinLowercase &&
		upper >= p.MinUppercase &&
		numbers >= p.MinNumbers &&
		symbols >= p.MinSymbols
}
