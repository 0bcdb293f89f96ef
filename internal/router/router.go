package router

import (
	"time"

	"password-reset/internal/cache"
	"password-reset/internal/database"
	"password-reset/internal/handler"
	"password-reset/internal/handler/auth"
	"password-reset/internal/handler/users"
	"password-reset/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps 路由所需的相依元件
type Deps struct {
	DB             database.DB
	Cache          cache.Cache
	PasswordReset  auth.PasswordResetter
	Logger         *zap.Logger
	JWTSecret      []byte
	AccessTokenTTL time.Duration
	// ResetRateLimit 重設密碼路由每個 IP 每秒可呼叫次數
	ResetRateLimit float64
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 登入
	api.POST("/auth/login", auth.LoginHandler(d.DB, d.JWTSecret, d.AccessTokenTTL, d.Logger))

	// 忘記密碼，依 IP 限流
	reset := api.Group("/auth/password-reset", middleware.RateLimit(d.ResetRateLimit))
	reset.POST("/request", auth.RequestPasswordResetHandler(d.PasswordReset, d.Logger))
	reset.POST("", auth.ResetPasswordHandler(d.PasswordReset, d.Logger))

	// 當前使用者
	apiUsersMe := api.Group("/users/me", middleware.RequireAuth(d.JWTSecret))
	apiUsersMe.PATCH("/password", users.UpdatePasswordMeHandler(d.DB, d.Logger))
}
