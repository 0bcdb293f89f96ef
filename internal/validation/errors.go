// File: internal/validation/errors.go
package validation

import (
	"errors"
	"strings"
)

// 密碼重設請求的三種驗證錯誤，訊息即回傳給使用者的文字
var (
	ErrWeakPassword     = errors.New("weak password")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidOTPLength = errors.New("otp must be 6 characters")
)

// FieldError 單一欄位違反的規則
type FieldError struct {
	Field   string `json:"field" example:"otp"`
	Message string `json:"message" example:"otp must be 6 characters"`
	err     error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e FieldError) Unwrap() error {
	return e.err
}

// Errors 依規則順序收集的全部欄位錯誤
type Errors []FieldError

func (es Errors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any of the collected rule errors.
func (es Errors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}
	return out
}

// Messages 只回傳訊息文字，順序與規則表相同
func (es Errors) Messages() []string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Field 回傳指定欄位的第一個錯誤
func (es Errors) Field(name string) (FieldError, bool) {
	for _, e := range es {
		if e.Field == name {
			return e, true
		}
	}
	return FieldError{}, false
}

func newFieldError(field string, err error) FieldError {
	return FieldError{Field: field, Message: err.Error(), err: err}
}
