package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"password-reset/internal/database"
	"password-reset/internal/model"

	"github.com/jackc/pgx/v5"
)

// ErrUserNotFound 查無使用者
var ErrUserNotFound = errors.New("user not found")

const selectUser = `SELECT id, name, email, password_hash, created_at, updated_at FROM users`

func scanUser(row pgx.Row, op string) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx, selectUser+` WHERE id = $1`, userID)
	return scanUser(row, "GetUserByID")
}

// GetUserByEmail 以 Email 查詢 (不分大小寫)
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx, selectUser+` WHERE LOWER(email) = $1`, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row, "GetUserByEmail")
}

func UpdateUserPassword(ctx context.Context, db database.DB, userID int, passwordHash string) error {
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, updated_at = NOW()
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUserPassword: %w", ErrUserNotFound)
	}
	return nil
}
