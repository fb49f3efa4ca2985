package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

func (r *orderRepo) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	const q = `
SELECT id, customer_id, status, total, currency,
       billing_email, billing_phone, billing_first_name, billing_last_name,
       transaction_id, paid_at, created_at, updated_at
FROM orders WHERE id=$1;`

	o := &model.Order{}
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.Currency,
		&o.BillingEmail, &o.BillingPhone, &o.BillingFirstName, &o.BillingLastName,
		&o.TransactionID, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.ErrOperationFailed
	}
	return o, nil
}

// MarkProcessing is the idempotency guard on the wire: the WHERE clause is
// an atomic compare-and-set, so of two concurrent success callbacks only
// one sees RowsAffected==1.
func (r *orderRepo) MarkProcessing(ctx context.Context, id int64, note string) (bool, error) {
	return r.transition(ctx, id, model.OrderStatusProcessing, note)
}

func (r *orderRepo) MarkFailed(ctx context.Context, id int64, note string) (bool, error) {
	return r.transition(ctx, id, model.OrderStatusFailed, note)
}

func (r *orderRepo) transition(ctx context.Context, id int64, to model.OrderStatus, note string) (bool, error) {
	const q = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 AND status <> 'processing';`
	ct, err := r.pool.Exec(ctx, q, id, to)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}
	if note != "" {
		if err := r.AddNote(ctx, id, note); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (r *orderRepo) RecordPaymentComplete(ctx context.Context, id int64, transactionID string, paidAt time.Time) error {
	const q = `UPDATE orders SET transaction_id=$2, paid_at=$3, updated_at=NOW() WHERE id=$1;`
	if _, err := r.pool.Exec(ctx, q, id, transactionID, paidAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) SetMetadata(ctx context.Context, id int64, key, value string) error {
	const q = `
INSERT INTO order_meta (order_id, meta_key, meta_value)
VALUES ($1,$2,$3)
ON CONFLICT (order_id, meta_key) DO UPDATE SET meta_value=$3;`
	if _, err := r.pool.Exec(ctx, q, id, key, value); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) GetMetadata(ctx context.Context, id int64, key string) (string, error) {
	const q = `SELECT meta_value FROM order_meta WHERE order_id=$1 AND meta_key=$2;`
	var v string
	err := r.pool.QueryRow(ctx, q, id, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", domain.ErrOperationFailed
	}
	return v, nil
}

func (r *orderRepo) AddNote(ctx context.Context, id int64, note string) error {
	const q = `INSERT INTO order_notes (order_id, note, created_at) VALUES ($1,$2,NOW());`
	if _, err := r.pool.Exec(ctx, q, id, note); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
