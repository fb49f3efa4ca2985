// File: internal/usecase/refund_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/domain/ports/adapter"
	"ikhokha-gateway/internal/domain/ports/repository"
	"ikhokha-gateway/internal/infra/logging"
	"ikhokha-gateway/internal/infra/metrics"
)

// Compile-time check
var _ RefundUseCase = (*refundUC)(nil)

type RefundUseCase interface {
	// Refund submits a signed refund for the order. amount is a decimal in
	// major units; reason is free text passed to the processor.
	Refund(ctx context.Context, orderID int64, amount, reason string) error
}

type refundUC struct {
	orders    repository.OrderRepository
	processor adapter.ProcessorClient
	currency  string
	decSep    string
	log       *zerolog.Logger
}

func NewRefundUseCase(orders repository.OrderRepository, processor adapter.ProcessorClient, currency, decimalSeparator string, logger *zerolog.Logger) *refundUC {
	return &refundUC{orders: orders, processor: processor, currency: currency, decSep: decimalSeparator, log: logger}
}

func (u *refundUC) Refund(ctx context.Context, orderID int64, amount, reason string) error {
	defer logging.TraceDuration(u.log, "RefundUC.Refund")()

	minor, err := model.ToMinorUnits(amount, u.decSep)
	if err != nil {
		return err
	}

	// The transaction id is part of the refund's signed string, so it must
	// be resolved before the request can be signed.
	txnID, err := u.resolveTransactionID(ctx, orderID)
	if err != nil {
		metrics.IncRefund("failed")
		return err
	}

	_, err = u.processor.Refund(ctx, txnID, &model.RefundRequest{Amount: minor, Reason: reason})
	if err != nil {
		if errors.Is(err, domain.ErrRefundRejected) {
			metrics.IncRefund("rejected")
		} else {
			metrics.IncRefund("failed")
		}
		u.log.Warn().Err(err).Int64("order_id", orderID).Str("transaction_id", txnID).Msg("refund failed")
		return err
	}

	note := fmt.Sprintf("%s %s was successfully refunded through iKhokha", u.currency, amount)
	if err := u.orders.AddNote(ctx, orderID, note); err != nil {
		u.log.Error().Err(err).Int64("order_id", orderID).Msg("refund note failed")
	}
	metrics.IncRefund("succeeded")
	return nil
}

func (u *refundUC) resolveTransactionID(ctx context.Context, orderID int64) (string, error) {
	if raw, err := u.orders.GetMetadata(ctx, orderID, model.MetaCallbackData); err == nil && raw != "" {
		var data model.CallbackData
		if err := json.Unmarshal([]byte(raw), &data); err == nil && data.TransactionID != "" {
			return data.TransactionID, nil
		}
	}

	link, err := u.orders.GetMetadata(ctx, orderID, model.MetaPaymentURL)
	if err != nil || link == "" {
		return "", domain.ErrNoTransactionID
	}
	return TransactionIDFromURL(link)
}

// TransactionIDFromURL extracts the trailing path segment of a stored
// payment link as a fallback transaction id, for orders whose callback
// never carried one. Fragile by construction: coupled to the processor's
// link format.
func TransactionIDFromURL(paymentURL string) (string, error) {
	s := strings.TrimSpace(paymentURL)
	seg := s[strings.LastIndex(s, "/")+1:]
	if seg == "" {
		return "", domain.ErrNoTransactionID
	}
	return seg, nil
}
