package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrSoldOut             = errors.New("ledger: gift sold out")
	ErrNotFound            = errors.New("ledger: transaction not found")
	ErrNotRefundable       = errors.New("ledger: transaction is not a completed debit")
	ErrAlreadyRefunded     = errors.New("ledger: transaction already refunded")
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// CommitPurchase фиксирует одну купленную единицу: списание баланса,
// декремент остатка тиража и запись в журнал — в одной транзакции.
// Внешний sendGift к этому моменту уже прошёл и отменён быть не может.
// Возвращает баланс после списания.
func (r *Repo) CommitPurchase(ctx context.Context, userID int64, giftID string, price int64, chargeID, payload string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("tx begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance = balance - $2
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`, userID, price).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrInsufficientBalance
		}
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE gifts SET remaining_count = remaining_count - 1, updated_at = now()
		WHERE gift_id = $1 AND remaining_count > 0
	`, giftID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrSoldOut
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, amount, charge_id, payload, status)
		VALUES ($1,$2,$3,$4,$5)
	`, userID, -price, chargeID, payload, StatusCompleted); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit: %w", err)
	}
	return balance, nil
}

// Credit начисляет звёзды (перевод от владельца бота и т.п.).
func (r *Repo) Credit(ctx context.Context, userID, amount int64, chargeID, payload string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("tx begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2
		WHERE user_id = $1
		RETURNING balance
	`, userID, amount).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, amount, charge_id, payload, status)
		VALUES ($1,$2,$3,$4,$5)
	`, userID, amount, chargeID, payload, StatusCompleted); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tx commit: %w", err)
	}
	return balance, nil
}

// Refund возвращает пользователю сумму завершённого списания.
// Повторный возврат по тому же ID не проходит: компенсирующая запись
// помечается charge_id = refund_<id> и её наличие проверяется заранее.
func (r *Repo) Refund(ctx context.Context, txID int64) (*Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("tx begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orig Transaction
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, amount, charge_id, payload, status, created_at
		FROM transactions WHERE id = $1
	`, txID).Scan(&orig.ID, &orig.UserID, &orig.Amount, &orig.ChargeID, &orig.Payload, &orig.Status, &orig.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if orig.Amount >= 0 || orig.Status != StatusCompleted {
		return nil, ErrNotRefundable
	}

	refundCharge := fmt.Sprintf("refund_%d", txID)
	var exists bool
	if err = tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE charge_id = $1)
	`, refundCharge).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRefunded
	}

	if _, err = tx.Exec(ctx, `
		UPDATE users SET balance = balance + $2 WHERE user_id = $1
	`, orig.UserID, -orig.Amount); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, amount, charge_id, payload, status)
		VALUES ($1,$2,$3,$4,$5)
	`, orig.UserID, -orig.Amount, refundCharge, "refund of "+orig.Payload, StatusCompleted); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx commit: %w", err)
	}
	return &orig, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID int64, limit int) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, charge_id, payload, status, created_at
		FROM transactions WHERE user_id = $1
		ORDER BY id DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repo) ListAll(ctx context.Context) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, charge_id, payload, status, created_at
		FROM transactions ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.ChargeID, &t.Payload, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
