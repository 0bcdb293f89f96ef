// File: internal/service/otp.go
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"password-reset/internal/cache"

	"github.com/redis/go-redis/v9"
)

const (
	// otpDigits 驗證碼位數，與請求驗證的長度一致
	otpDigits = 6
	otpSpace  = 1_000_000
	// otpRandLimit 小於 2^32 的最大 otpSpace 倍數，避免取餘數偏差
	otpRandLimit     = (1 << 32) / otpSpace * otpSpace
	otpIssueAttempts = 5
	otpKeyPrefix     = "password_reset:otp:"
	// otpUserPrefix 每位使用者目前有效驗證碼的 hash，重新申請時用來撤銷舊碼
	otpUserPrefix = "password_reset:user:"
)

var (
	// ErrOTPNotFound 驗證碼不存在、已使用或已過期
	ErrOTPNotFound = errors.New("invalid or expired otp")
	// ErrOTPExhausted 連續碰撞，無法配發新的驗證碼
	ErrOTPExhausted = errors.New("could not allocate otp")

	randRead      = rand.Read
	jsonMarshal   = json.Marshal
	jsonUnmarshal = json.Unmarshal
)

// ResetOTPData 儲存在 Redis 中的驗證碼內容
type ResetOTPData struct {
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// otpHash 驗證碼的 SHA-256，明文不落地
func otpHash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func otpKey(code string) string {
	return otpKeyPrefix + otpHash(code)
}

func otpUserKey(userID int) string {
	return otpUserPrefix + strconv.Itoa(userID)
}

// revokePreviousOTP 將使用者索引指向新碼，並刪除先前配發的驗證碼
func revokePreviousOTP(ctx context.Context, c cache.Cache, userID int, hash string, ttl time.Duration) error {
	idx := otpUserKey(userID)
	prev, err := c.GetDel(ctx, idx).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if prev != "" && prev != hash {
		if err := c.Del(ctx, otpKeyPrefix+prev).Err(); err != nil {
			return err
		}
	}
	return c.Set(ctx, idx, hash, ttl).Err()
}

// generateOTP 產生 6 位數字驗證碼
func generateOTP() (string, error) {
	var buf [4]byte
	for {
		if _, err := randRead(buf[:]); err != nil {
			return "", err
		}
		n := binary.BigEndian.Uint32(buf[:])
		if n < otpRandLimit {
			return fmt.Sprintf("%0*d", otpDigits, n%otpSpace), nil
		}
	}
}

// IssueResetOTP 為使用者配發一次性驗證碼並存入快取；同一使用者先前的驗證碼隨即失效
func IssueResetOTP(ctx context.Context, c cache.Cache, userID int, ttl time.Duration) (string, error) {
	data, err := jsonMarshal(ResetOTPData{UserID: userID, ExpiresAt: timeNow().Add(ttl)})
	if err != nil {
		return "", err
	}

	for i := 0; i < otpIssueAttempts; i++ {
		code, err := generateOTP()
		if err != nil {
			return "", err
		}
		hash := otpHash(code)
		ok, err := c.SetNX(ctx, otpKeyPrefix+hash, data, ttl).Result()
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if err := revokePreviousOTP(ctx, c, userID, hash, ttl); err != nil {
			_ = c.Del(ctx, otpKeyPrefix+hash).Err()
			return "", err
		}
		return code, nil
	}
	return "", ErrOTPExhausted
}

// ConsumeResetOTP 取出並刪除驗證碼，回傳對應的使用者 ID
func ConsumeResetOTP(ctx context.Context, c cache.Cache, code string) (int, error) {
	raw, err := c.GetDel(ctx, otpKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrOTPNotFound
		}
		return 0, err
	}

	var d ResetOTPData
	if err := jsonUnmarshal([]byte(raw), &d); err != nil {
		return 0, err
	}
	// 索引只用於撤銷，清除失敗不影響本次驗證
	_ = c.Del(ctx, otpUserKey(d.UserID)).Err()
	if !timeNow().Before(d.ExpiresAt) {
		return 0, ErrOTPNotFound
	}
	return d.UserID, nil
}
