package auth

import (
	"errors"
	"net/http"
	"time"

	"password-reset/internal/database"
	"password-reset/internal/dto"
	"password-reset/internal/service"
	"password-reset/internal/store"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌與到期時間
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.LoginRequest true "登入資料"
// @Success     200  {object} dto.LoginResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Router      /auth/login [post]
func LoginHandler(db database.DB, secret []byte, tokenTTL time.Duration, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewValidationError(err))
		}

		ctx := c.Request().Context()
		user, err := store.GetUserByEmail(ctx, db, req.Email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid credentials"})
			}
			logger.Error("login lookup failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "internal server error"})
		}

		authUser, err := service.AuthenticateUser(ctx, *user, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid credentials"})
		}

		token, expiresAt, err := service.IssueAccessToken(secret, *authUser, tokenTTL)
		if err != nil {
			logger.Error("issue token failed", zap.Int("user_id", authUser.ID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, dto.LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
	}
}
