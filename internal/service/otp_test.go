package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"password-reset/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestGenerateOTP(t *testing.T) {
	t.Cleanup(restoreGlobals)
	digits := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		require.Regexp(t, digits, code)
	}

	// values above the rejection limit are redrawn; 0 pads to six digits
	calls := 0
	randRead = func(b []byte) (int, error) {
		calls++
		if calls == 1 {
			b[0], b[1], b[2], b[3] = 0xff, 0xff, 0xff, 0xff
		} else {
			b[0], b[1], b[2], b[3] = 0, 0, 0, 0
		}
		return len(b), nil
	}
	code, err := generateOTP()
	require.NoError(t, err)
	require.Equal(t, "000000", code)
	require.Equal(t, 2, calls)

	randRead = func([]byte) (int, error) { return 0, errors.New("entropy") }
	_, err = generateOTP()
	require.Error(t, err)
}

func TestIssueAndConsumeResetOTP(t *testing.T) {
	t.Cleanup(restoreGlobals)
	mr, rdb := newMiniredis(t)
	ctx := context.Background()

	code, err := IssueResetOTP(ctx, rdb, 42, 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, code, otpDigits)

	key := otpKey(code)
	require.True(t, mr.Exists(key))
	require.Equal(t, 15*time.Minute, mr.TTL(key))
	stored, err := mr.Get(key)
	require.NoError(t, err)
	require.Contains(t, stored, `"user_id":42`)

	userID, err := ConsumeResetOTP(ctx, rdb, code)
	require.NoError(t, err)
	require.Equal(t, 42, userID)

	// single use
	_, err = ConsumeResetOTP(ctx, rdb, code)
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestConsumeResetOTPExpired(t *testing.T) {
	t.Cleanup(restoreGlobals)
	_, rdb := newMiniredis(t)
	ctx := context.Background()

	code, err := IssueResetOTP(ctx, rdb, 1, time.Minute)
	require.NoError(t, err)

	// record still in redis but past its own expiry
	timeNow = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = ConsumeResetOTP(ctx, rdb, code)
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestConsumeResetOTPTTLElapsed(t *testing.T) {
	t.Cleanup(restoreGlobals)
	mr, rdb := newMiniredis(t)
	ctx := context.Background()

	code, err := IssueResetOTP(ctx, rdb, 1, time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = ConsumeResetOTP(ctx, rdb, code)
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestIssueResetOTPCollisions(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	attempts := 0
	c := &cache.FakeCache{
		SetNXFn: func(_ context.Context, key string, _ any, ttl time.Duration) *redis.BoolCmd {
			attempts++
			require.Equal(t, time.Minute, ttl)
			return redis.NewBoolResult(attempts == 3, nil)
		},
		GetDelFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", redis.Nil)
		},
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
	}
	code, err := IssueResetOTP(ctx, c, 1, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, code)
	require.Equal(t, 3, attempts)

	c.SetNXFn = func(context.Context, string, any, time.Duration) *redis.BoolCmd {
		return redis.NewBoolResult(false, nil)
	}
	_, err = IssueResetOTP(ctx, c, 1, time.Minute)
	require.ErrorIs(t, err, ErrOTPExhausted)
}

func TestIssueResetOTPErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	c := &cache.FakeCache{SetNXFn: func(context.Context, string, any, time.Duration) *redis.BoolCmd {
		return redis.NewBoolResult(false, errors.New("down"))
	}}
	_, err := IssueResetOTP(ctx, c, 1, time.Minute)
	require.EqualError(t, err, "down")

	randRead = func([]byte) (int, error) { return 0, errors.New("entropy") }
	_, err = IssueResetOTP(ctx, c, 1, time.Minute)
	require.EqualError(t, err, "entropy")

	jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("marshal") }
	_, err = IssueResetOTP(ctx, c, 1, time.Minute)
	require.EqualError(t, err, "marshal")
}

func TestIssueResetOTPRevokesPrevious(t *testing.T) {
	t.Cleanup(restoreGlobals)
	mr, rdb := newMiniredis(t)
	ctx := context.Background()

	first, err := IssueResetOTP(ctx, rdb, 7, 15*time.Minute)
	require.NoError(t, err)
	second, err := IssueResetOTP(ctx, rdb, 7, 15*time.Minute)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.False(t, mr.Exists(otpKey(first)))
	idx, err := mr.Get(otpUserKey(7))
	require.NoError(t, err)
	require.Equal(t, otpHash(second), idx)
	require.Equal(t, 15*time.Minute, mr.TTL(otpUserKey(7)))

	// other users keep their codes
	other, err := IssueResetOTP(ctx, rdb, 8, 15*time.Minute)
	require.NoError(t, err)

	_, err = ConsumeResetOTP(ctx, rdb, first)
	require.ErrorIs(t, err, ErrOTPNotFound)

	userID, err := ConsumeResetOTP(ctx, rdb, second)
	require.NoError(t, err)
	require.Equal(t, 7, userID)
	require.False(t, mr.Exists(otpUserKey(7)))

	userID, err = ConsumeResetOTP(ctx, rdb, other)
	require.NoError(t, err)
	require.Equal(t, 8, userID)
}

func TestIssueResetOTPRevokeErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	setNX := func(context.Context, string, any, time.Duration) *redis.BoolCmd {
		return redis.NewBoolResult(true, nil)
	}
	tests := []struct {
		name    string
		getDel  error
		del     error
		set     error
		wantErr string
	}{
		{name: "index read fails", getDel: errors.New("getdel"), wantErr: "getdel"},
		{name: "previous delete fails", del: errors.New("del"), wantErr: "del"},
		{name: "index write fails", set: errors.New("set"), wantErr: "set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deleted []string
			c := &cache.FakeCache{
				SetNXFn: setNX,
				GetDelFn: func(context.Context, string) *redis.StringCmd {
					return redis.NewStringResult("oldhash", tt.getDel)
				},
				DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
					deleted = append(deleted, keys...)
					if keys[0] == otpKeyPrefix+"oldhash" {
						return redis.NewIntResult(0, tt.del)
					}
					return redis.NewIntResult(1, nil)
				},
				SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
					return redis.NewStatusResult("", tt.set)
				},
			}
			code, err := IssueResetOTP(ctx, c, 1, time.Minute)
			require.EqualError(t, err, tt.wantErr)
			require.Empty(t, code)
			// 新配發的碼不可殘留
			require.NotEmpty(t, deleted)
			require.NotEqual(t, otpKeyPrefix+"oldhash", deleted[len(deleted)-1])
		})
	}
}

func TestConsumeResetOTPErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	c := &cache.FakeCache{GetDelFn: func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("", errors.New("down"))
	}}
	_, err := ConsumeResetOTP(ctx, c, "123456")
	require.EqualError(t, err, "down")

	c.GetDelFn = func(context.Context, string) *redis.StringCmd {
		return redis.NewStringResult("{not json", nil)
	}
	_, err = ConsumeResetOTP(ctx, c, "123456")
	require.Error(t, err)
}
