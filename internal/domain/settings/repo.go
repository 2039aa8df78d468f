package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const columns = `user_id, enabled, price_from, price_to, supply_limit, cycles, updated_at`

// GetOrCreate возвращает настройки пользователя, создавая строку с
// дефолтами при первом обращении.
func (r *Repo) GetOrCreate(ctx context.Context, userID int64) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO auto_buy_settings (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+columns, userID)
	return scan(row)
}

// ListEnabled — включённые настройки в порядке возрастания user_id,
// чтобы порядок обработки внутри тика был стабильным.
func (r *Repo) ListEnabled(ctx context.Context) ([]Settings, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columns+` FROM auto_buy_settings
		WHERE enabled ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settings
	for rows.Next() {
		var s Settings
		if err := rows.Scan(&s.UserID, &s.Enabled, &s.PriceFrom, &s.PriceTo, &s.SupplyLimit, &s.Cycles, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) SetEnabled(ctx context.Context, userID int64, enabled bool) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE auto_buy_settings SET enabled = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+columns, userID, enabled)
	return scan(row)
}

func (r *Repo) SetPriceRange(ctx context.Context, userID, from, to int64) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE auto_buy_settings SET price_from = $2, price_to = $3, updated_at = now()
		WHERE user_id = $1
		RETURNING `+columns, userID, from, to)
	return scan(row)
}

// SetSupplyLimit: nil снимает ограничение.
func (r *Repo) SetSupplyLimit(ctx context.Context, userID int64, limit *int64) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE auto_buy_settings SET supply_limit = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+columns, userID, limit)
	return scan(row)
}

func (r *Repo) SetCycles(ctx context.Context, userID int64, cycles int) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE auto_buy_settings SET cycles = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+columns, userID, cycles)
	return scan(row)
}

type rowScanner interface{ Scan(dest ...any) error }

func scan(row rowScanner) (*Settings, error) {
	var s Settings
	if err := row.Scan(&s.UserID, &s.Enabled, &s.PriceFrom, &s.PriceTo, &s.SupplyLimit, &s.Cycles, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
