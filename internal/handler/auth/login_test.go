package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"password-reset/internal/database"
	"password-reset/internal/dto"
	"password-reset/internal/model"
	"password-reset/internal/service"
	"password-reset/internal/validation"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

// helper to build echo context
func newJSONCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type fakeRow struct {
	u   model.User
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.u.ID
	*dest[1].(*string) = r.u.Name
	*dest[2].(*string) = r.u.Email
	*dest[3].(*string) = r.u.PasswordHash
	*dest[4].(*time.Time) = r.u.CreatedAt
	*dest[5].(*time.Time) = r.u.UpdatedAt
	return nil
}

func userDB(row fakeRow) *database.FakeDB {
	return &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row { return row }}
}

func TestLoginHandler(t *testing.T) {
	secret := []byte("secret")
	hash, err := service.HashPassword("Secret123!")
	require.NoError(t, err)
	alice := model.User{ID: 1, Name: "alice", Email: "alice@example.com", PasswordHash: hash}
	logger := zap.NewNop()

	t.Run("bind error", func(t *testing.T) {
		e := newEcho()
		e.Binder = errBinder{}
		ctx, rec := newJSONCtx(e, "")
		require.NoError(t, LoginHandler(&database.FakeDB{}, secret, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), `{"email":"not-an-email"}`)
		require.NoError(t, LoginHandler(&database.FakeDB{}, secret, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body dto.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "validation failed", body.Message)
		require.Len(t, body.Errors, 2)
		require.Equal(t, "email", body.Errors[0].Field)
		require.Equal(t, "password", body.Errors[1].Field)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), `{"email":"bob@example.com","password":"x"}`)
		require.NoError(t, LoginHandler(userDB(fakeRow{err: pgx.ErrNoRows}), secret, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("lookup failure", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), `{"email":"bob@example.com","password":"x"}`)
		require.NoError(t, LoginHandler(userDB(fakeRow{err: errors.New("db down")}), secret, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "db down")
	})

	t.Run("wrong password", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), `{"email":"alice@example.com","password":"nope"}`)
		require.NoError(t, LoginHandler(userDB(fakeRow{u: alice}), secret, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token failure", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), `{"email":"alice@example.com","password":"Secret123!"}`)
		require.NoError(t, LoginHandler(userDB(fakeRow{u: alice}), nil, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		ctx, rec := newJSONCtx(newEcho(), `{"email":"alice@example.com","password":"Secret123!"}`)
		require.NoError(t, LoginHandler(userDB(fakeRow{u: alice}), secret, time.Hour, logger)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.AccessToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

		claims, err := service.VerifyAccessToken(secret, resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, 1, claims.ID)
	})
}
