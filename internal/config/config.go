package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 服務啟動所需的全部設定
type Config struct {
	Port string
	Env  string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	AccessTokenTTL time.Duration

	WorkerCount        int
	PasswordResetTTL   time.Duration
	RateLimitPerSecond float64

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

var dotenvLoad = godotenv.Load

// Load 先讀取 .env (若存在)，再從環境變數組出設定
func Load() (*Config, error) {
	if err := dotenvLoad(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("讀取 .env 失敗: %w", err)
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		Env:           getenv("APP_ENV", "development"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
	}

	var err error
	if cfg.DatabaseURL, err = must("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisAddr, err = must("REDIS_ADDR"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = must("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0, 0); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getInt("WORKER_COUNT", 1, 1); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587, 1); err != nil {
		return nil, err
	}
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PasswordResetTTL, err = getDuration("PASSWORD_RESET_OTP_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerSecond, err = getFloat("RATE_LIMIT_PER_SECOND", 5); err != nil {
		return nil, err
	}

	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("環境變數 SMTP_FROM 未設定")
	}
	return cfg, nil
}

// SMTPEnabled 是否設定了 SMTP 寄信
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// Addr Echo 監聽位址
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) (string, error) {
	v := os.Getenv(k)
	if v == "" {
		return "", fmt.Errorf("環境變數 %s 未設定", k)
	}
	return v, nil
}

func getInt(k string, d, min int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return 0, fmt.Errorf("無效的 %s: %q", k, v)
	}
	return n, nil
}

func getDuration(k string, d time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil || dur <= 0 {
		return 0, fmt.Errorf("無效的 %s: %q", k, v)
	}
	return dur, nil
}

func getFloat(k string, d float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return d, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("無效的 %s: %q", k, v)
	}
	return f, nil
}
