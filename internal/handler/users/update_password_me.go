package users

import (
	"errors"
	"net/http"

	"password-reset/internal/database"
	"password-reset/internal/dto"
	"password-reset/internal/middleware"
	"password-reset/internal/service"
	"password-reset/internal/store"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	hashPassword       = service.HashPassword
	authenticateUser   = service.AuthenticateUser
	getUserByID        = store.GetUserByID
	updateUserPassword = store.UpdateUserPassword
)

// UpdatePasswordMeHandler 更新當前使用者密碼
// @Summary     Update own password
// @Description 驗證舊密碼並更新為新密碼；新密碼規則與重設密碼相同
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body dto.ChangePasswordRequest true "舊密碼與新密碼"
// @Success     204  "No Content"
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     500  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdatePasswordMeHandler(db database.DB, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok || claims == nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
		}

		var req dto.ChangePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.NewValidationError(err))
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, claims.ID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid or missing token"})
			}
			logger.Error("load user failed", zap.Int("user_id", claims.ID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "internal server error"})
		}

		if _, err := authenticateUser(ctx, *user, req.OldPassword); err != nil {
			return c.JSON(http.StatusUnauthorized, dto.HTTPError{Message: "invalid current password"})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			logger.Error("hash password failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "failed to hash new password"})
		}

		if err := updateUserPassword(ctx, db, claims.ID, hash); err != nil {
			logger.Error("update password failed", zap.Int("user_id", claims.ID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, dto.HTTPError{Message: "internal server error"})
		}

		logger.Info("password changed", zap.Int("user_id", claims.ID))
		return c.NoContent(http.StatusNoContent)
	}
}
