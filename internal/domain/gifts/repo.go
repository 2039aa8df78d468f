package gifts

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, giftID string) (*Gift, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT gift_id, price, total_count, remaining_count, is_new, updated_at
		FROM gifts WHERE gift_id = $1
	`, giftID)

	var g Gift
	if err := row.Scan(&g.GiftID, &g.Price, &g.TotalCount, &g.RemainingCount, &g.IsNew, &g.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// Upsert сохраняет подарок. Новая запись получает is_new=true; у уже
// известной обновляются только изменившиеся поля, is_new не трогаем.
// Возвращает (inserted, updated).
func (r *Repo) Upsert(ctx context.Context, giftID string, price, totalCount, remainingCount int64) (bool, bool, error) {
	existing, err := r.Get(ctx, giftID)
	if err != nil {
		return false, false, err
	}

	if existing == nil {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO gifts (gift_id, price, total_count, remaining_count, is_new)
			VALUES ($1,$2,$3,$4,true)
		`, giftID, price, totalCount, remainingCount)
		return err == nil, false, err
	}

	if existing.Price == price && existing.TotalCount == totalCount && existing.RemainingCount == remainingCount {
		return false, false, nil
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE gifts
		SET price = $2, total_count = $3, remaining_count = $4, updated_at = now()
		WHERE gift_id = $1
	`, giftID, price, totalCount, remainingCount)
	return false, err == nil, err
}

func (r *Repo) ListNew(ctx context.Context) ([]Gift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT gift_id, price, total_count, remaining_count, is_new, updated_at
		FROM gifts WHERE is_new ORDER BY total_count, gift_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Gift
	for rows.Next() {
		var g Gift
		if err := rows.Scan(&g.GiftID, &g.Price, &g.TotalCount, &g.RemainingCount, &g.IsNew, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repo) ListAll(ctx context.Context) ([]Gift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT gift_id, price, total_count, remaining_count, is_new, updated_at
		FROM gifts ORDER BY total_count, gift_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Gift
	for rows.Next() {
		var g Gift
		if err := rows.Scan(&g.GiftID, &g.Price, &g.TotalCount, &g.RemainingCount, &g.IsNew, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ResetNew снимает флаг новизны со всех подарков. Вызывается один раз
// в конце тика, после обработки всех пользователей.
func (r *Repo) ResetNew(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE gifts SET is_new = false WHERE is_new`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
