package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/ports/repository"
)

// Compile-time checks
var (
	_ repository.InventoryRepository = (*inventoryRepo)(nil)
	_ repository.CartRepository      = (*cartRepo)(nil)
)

type inventoryRepo struct{ pool *pgxpool.Pool }

func NewInventoryRepo(pool *pgxpool.Pool) *inventoryRepo {
	return &inventoryRepo{pool: pool}
}

func (r *inventoryRepo) ReduceStock(ctx context.Context, orderID int64) error {
	const q = `
UPDATE products p
SET stock_quantity = p.stock_quantity - oi.quantity
FROM order_items oi
WHERE oi.order_id=$1 AND oi.product_id=p.id AND p.manage_stock;`
	if _, err := r.pool.Exec(ctx, q, orderID); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

type cartRepo struct{ pool *pgxpool.Pool }

func NewCartRepo(pool *pgxpool.Pool) *cartRepo {
	return &cartRepo{pool: pool}
}

func (r *cartRepo) Clear(ctx context.Context, customerID int64) error {
	const q = `DELETE FROM cart_items WHERE customer_id=$1;`
	if _, err := r.pool.Exec(ctx, q, customerID); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
