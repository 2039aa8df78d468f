package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, userID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, username, status, balance, created_at
		FROM users WHERE user_id = $1
	`, userID)

	var u User
	if err := row.Scan(&u.UserID, &u.Username, &u.Status, &u.Balance, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Upsert по Telegram-профилю. Если пользователь уже admin — не понижаем.
func (r *Repo) Upsert(ctx context.Context, userID int64, username string, status Status) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, username, status, balance)
		VALUES ($1,$2,$3,0)
		ON CONFLICT (user_id)
		DO UPDATE SET
			username = EXCLUDED.username,
			status   = CASE WHEN users.status = 'admin' THEN users.status ELSE EXCLUDED.status END
		RETURNING user_id, username, status, balance, created_at
	`, userID, username, string(status))

	var u User
	if err := row.Scan(&u.UserID, &u.Username, &u.Status, &u.Balance, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
