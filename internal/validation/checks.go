// File: internal/validation/checks.go
package validation

import "strconv"

// validate 共用的 go-playground validator，單值檢查 (Var) 與結構檢查都用它
var validate = newStructValidator()

// Present 全部欄位都非空字串時成立；空字串與未提供視為相同
func Present[T any](fields ...func(T) string) func(T) bool {
	return func(in T) bool {
		for _, get := range fields {
			if get(in) == "" {
				return false
			}
		}
		return true
	}
}

// IsMatching 比對兩個欄位是否完全相同 (區分大小寫，逐位元組)
func IsMatching[T any](field, other func(T) string) func(T) bool {
	return func(in T) bool {
		return validate.VarWithValue(field(in), other(in), "eqfield") == nil
	}
}

// Length 欄位長度 (以字元計) 必須剛好為 n
func Length[T any](field func(T) string, n int) func(T) bool {
	tag := "len=" + strconv.Itoa(n)
	return func(in T) bool {
		return validate.Var(field(in), tag) == nil
	}
}

// Required 欄位不可為空字串
func Required[T any](field func(T) string) func(T) bool {
	return func(in T) bool {
		return validate.Var(field(in), "required") == nil
	}
}

// StrongPassword 欄位須符合密碼強度政策
func StrongPassword[T any](field func(T) string, policy PasswordPolicy) func(T) bool {
	return func(in T) bool {
		return policy.Allows(field(in))
	}
}

func minLengthTag(n int) string {
	return "min=" + strconv.Itoa(max(n, 0))
}
