// File: internal/dto/request_password_reset_request.go
package dto

// swagger:model dto.RequestPasswordResetRequest
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
}
