package auth

import (
	"context"
	"errors"
	"net/http"

	"password-reset/internal/dto"
	"password-reset/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PasswordResetter 忘記密碼流程所需的服務
type PasswordResetter interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req dto.ValidatedPasswordReset) error
}

// RequestPasswordResetHandler 寄送重設密碼驗證碼
// @Summary     申請重設密碼
// @Description 寄送 6 碼驗證碼至帳號 Email；無論 Email 是否存在都回傳 202
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body dto.RequestPasswordResetRequest true "帳號 Email"
// @Success     202  "Accepted"
// @Failure     400  {object} dto.HTTPError
// @Failure     429  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/password-reset/request [post]
func RequestPasswordResetHandler(svc PasswordResetter, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RequestPasswordResetRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewValidationError(err))
		}

		if err := svc.RequestReset(c.Request().Context(), req.Email); err != nil {
			logger.Error("request password reset failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "internal server error"})
		}
		return c.NoContent(http.StatusAccepted)
	}
}

// ResetPasswordHandler 以驗證碼設定新密碼
// @Summary     重設密碼
// @Description 驗證新密碼強度、確認密碼與 6 碼驗證碼後更新密碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body dto.PasswordResetRequest true "新密碼與驗證碼"
// @Success     204  "No Content"
// @Failure     400  {object} dto.HTTPError
// @Failure     429  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/password-reset [post]
func ResetPasswordHandler(svc PasswordResetter, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.PasswordResetRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		validated, err := dto.ValidatePasswordReset(req)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewValidationError(err))
		}

		if err := svc.ResetPassword(c.Request().Context(), validated); err != nil {
			if errors.Is(err, service.ErrOTPNotFound) {
				return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error()})
			}
			logger.Error("reset password failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "internal server error"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
