package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"password-reset/internal/cache"
	"password-reset/internal/database"
	"password-reset/internal/dto"
	"password-reset/internal/mail"
	"password-reset/internal/store"
	"password-reset/internal/worker"

	"go.uber.org/zap"
)

const resetMailSubject = "Password reset code"

// PasswordResetService 處理忘記密碼流程：寄送驗證碼、以驗證碼重設密碼
type PasswordResetService struct {
	db     database.DB
	cache  cache.Cache
	pool   worker.Pool
	mailer mail.Sender
	logger *zap.Logger
	otpTTL time.Duration
}

func NewPasswordResetService(db database.DB, c cache.Cache, pool worker.Pool, mailer mail.Sender, logger *zap.Logger, otpTTL time.Duration) *PasswordResetService {
	return &PasswordResetService{
		db:     db,
		cache:  c,
		pool:   pool,
		mailer: mailer,
		logger: logger.With(zap.String("component", "password_reset")),
		otpTTL: otpTTL,
	}
}

func resetMailBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Your password reset code is %s.\nIt expires in %d minutes. If you did not ask for a reset, ignore this message.",
		code, int(ttl.Minutes()),
	)
}

// RequestReset 配發驗證碼並排入寄信工作；查無 Email 時同樣回傳成功
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := store.GetUserByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := IssueResetOTP(ctx, s.cache, user.ID, s.otpTTL)
	if err != nil {
		return fmt.Errorf("RequestReset: %w", err)
	}

	to, body := user.Email, resetMailBody(code, s.otpTTL)
	userID := user.ID
	err = s.pool.Submit(ctx, func(taskCtx context.Context) {
		if err := s.mailer.Send(taskCtx, to, resetMailSubject, body); err != nil {
			s.logger.Error("send reset mail failed", zap.Int("user_id", userID), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("RequestReset: %w", err)
	}

	s.logger.Info("reset code issued", zap.Int("user_id", userID))
	return nil
}

// ResetPassword 消耗驗證碼並更新密碼，req 必須已通過結構驗證
func (s *PasswordResetService) ResetPassword(ctx context.Context, req dto.ValidatedPasswordReset) error {
	userID, err := ConsumeResetOTP(ctx, s.cache, req.OTP)
	if err != nil {
		return err
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("ResetPassword: %w", err)
	}

	if err := store.UpdateUserPassword(ctx, s.db, userID, hash); err != nil {
		// 驗證碼發出後帳號已被刪除
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	s.logger.Info("password reset", zap.Int("user_id", userID))
	return nil
}
