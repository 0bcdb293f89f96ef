// File: internal/dto/http_error.go
package dto

import (
	"errors"

	"password-reset/internal/validation"
)

// HTTPError 全域錯誤響應模型
// swagger:model dto.HTTPError
type HTTPError struct {
	// message 錯誤描述
	Message string `json:"message" example:"validation failed"`
	// errors 各欄位的驗證錯誤，只在驗證失敗時出現
	Errors validation.Errors `json:"errors,omitempty"`
}

// NewValidationError 將驗證錯誤轉成回應內容
func NewValidationError(err error) HTTPError {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return HTTPError{Message: "validation failed", Errors: errs}
	}
	return HTTPError{Message: err.Error()}
}
