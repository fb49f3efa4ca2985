package repository

import (
	"context"
	"time"

	"ikhokha-gateway/internal/domain/model"
)

// OrderRepository is the port onto the external order store. The status
// transition methods carry the idempotency guard into SQL: an order already
// in "processing" is never transitioned again, and the guard is an atomic
// compare-and-set so concurrent duplicate callbacks cannot both win.
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Order, error)

	// MarkProcessing moves the order to processing and records note against
	// it. Returns false without error when the guard loses (order already
	// processing).
	MarkProcessing(ctx context.Context, id int64, note string) (bool, error)
	// MarkFailed moves the order to failed under the same guard.
	MarkFailed(ctx context.Context, id int64, note string) (bool, error)

	// RecordPaymentComplete stores the processor transaction id and paid-at
	// timestamp once a success callback has been verified.
	RecordPaymentComplete(ctx context.Context, id int64, transactionID string, paidAt time.Time) error

	SetMetadata(ctx context.Context, id int64, key, value string) error
	// GetMetadata returns "" with a nil error when the key is absent.
	GetMetadata(ctx context.Context, id int64, key string) (string, error)

	AddNote(ctx context.Context, id int64, note string) error
}

// InventoryRepository reduces stock for an order's line items exactly once,
// as part of payment completion.
type InventoryRepository interface {
	ReduceStock(ctx context.Context, orderID int64) error
}

// CartRepository clears the buyer's active cart after a successful payment.
type CartRepository interface {
	Clear(ctx context.Context, customerID int64) error
}
