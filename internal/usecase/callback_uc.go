// File: internal/usecase/callback_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/domain/ports/repository"
	"ikhokha-gateway/internal/infra/logging"
	"ikhokha-gateway/internal/infra/metrics"
)

// Compile-time check
var _ CallbackUseCase = (*callbackUC)(nil)

// CallbackOutcome is the reconciliation decision the webhook layer turns
// into a wire response.
type CallbackOutcome int

const (
	// CallbackAccepted: order moved to processing, fulfilment side effects applied.
	CallbackAccepted CallbackOutcome = iota
	// CallbackFailed: processor reported a failed payment; order marked failed.
	CallbackFailed
	// CallbackRejected: unknown status, idempotency guard hit, or storage error.
	CallbackRejected
)

type CallbackUseCase interface {
	// Reconcile applies a verified callback payload to the order exactly
	// once. Authentication (signature, app id) happens before this is
	// called; Reconcile owns the idempotency and serialization guarantees.
	Reconcile(ctx context.Context, orderID int64, data *model.CallbackData) (CallbackOutcome, error)
}

const orderLockTTL = 15 * time.Second

type callbackUC struct {
	orders    repository.OrderRepository
	inventory repository.InventoryRepository
	carts     repository.CartRepository
	locker    repository.Locker
	currency  string
	log       *zerolog.Logger
}

func NewCallbackUseCase(
	orders repository.OrderRepository,
	inventory repository.InventoryRepository,
	carts repository.CartRepository,
	locker repository.Locker,
	currency string,
	logger *zerolog.Logger,
) *callbackUC {
	return &callbackUC{
		orders:    orders,
		inventory: inventory,
		carts:     carts,
		locker:    locker,
		currency:  currency,
		log:       logger,
	}
}

func (u *callbackUC) Reconcile(ctx context.Context, orderID int64, data *model.CallbackData) (CallbackOutcome, error) {
	defer logging.TraceDuration(u.log, "CallbackUC.Reconcile")()

	// Serialize duplicate deliveries for the same order. The status check
	// below is read-then-write; without the lock two concurrent callbacks
	// could both pass it.
	key := orderLockKey(orderID)
	token, err := u.locker.TryLock(ctx, key, orderLockTTL)
	if err != nil {
		metrics.IncCallback("rejected")
		return CallbackRejected, err
	}
	defer func() { _ = u.locker.Unlock(ctx, key, token) }()

	ord, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		metrics.IncCallback("rejected")
		return CallbackRejected, err
	}
	if ord.Status == model.OrderStatusProcessing {
		metrics.IncCallback("rejected")
		return CallbackRejected, domain.ErrAlreadyProcessed
	}

	switch strings.ToLower(data.Status) {
	case "success":
		return u.applySuccess(ctx, ord, data)
	case "failed":
		note := fmt.Sprintf("%s %s failed to connect through iKhokha", u.currency, ord.Total)
		if _, err := u.orders.MarkFailed(ctx, ord.ID, note); err != nil {
			metrics.IncCallback("rejected")
			return CallbackRejected, err
		}
		metrics.IncCallback("failed")
		return CallbackFailed, nil
	default:
		metrics.IncCallback("unknown")
		return CallbackRejected, fmt.Errorf("%w: %q", domain.ErrUnknownTransactionStatus, data.Status)
	}
}

func (u *callbackUC) applySuccess(ctx context.Context, ord *model.Order, data *model.CallbackData) (CallbackOutcome, error) {
	note := fmt.Sprintf("%s %s was successfully processed through iKhokha", u.currency, ord.Total)
	ok, err := u.orders.MarkProcessing(ctx, ord.ID, note)
	if err != nil {
		metrics.IncCallback("rejected")
		return CallbackRejected, err
	}
	if !ok {
		// Lost the compare-and-set: a concurrent delivery already won.
		metrics.IncCallback("rejected")
		return CallbackRejected, domain.ErrAlreadyProcessed
	}

	// The order is paid from here on. Side-effect failures are logged, not
	// propagated: a 500 would make the processor redeliver into the
	// idempotency guard, which can no longer re-apply them.
	if err := u.orders.RecordPaymentComplete(ctx, ord.ID, data.TransactionID, time.Now()); err != nil {
		u.log.Error().Err(err).Int64("order_id", ord.ID).Msg("record payment completion failed")
	}
	if raw, err := json.Marshal(data); err == nil {
		if err := u.orders.SetMetadata(ctx, ord.ID, model.MetaCallbackData, string(raw)); err != nil {
			u.log.Error().Err(err).Int64("order_id", ord.ID).Msg("persist callback payload failed")
		}
	}
	if err := u.inventory.ReduceStock(ctx, ord.ID); err != nil {
		u.log.Error().Err(err).Int64("order_id", ord.ID).Msg("stock reduction failed")
	}
	if err := u.carts.Clear(ctx, ord.CustomerID); err != nil {
		u.log.Error().Err(err).Int64("customer_id", ord.CustomerID).Msg("cart clear failed")
	}

	metrics.IncCallback("success")
	return CallbackAccepted, nil
}

func orderLockKey(orderID int64) string {
	return fmt.Sprintf("lock:order:%d", orderID)
}
