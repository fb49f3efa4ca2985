package adapter

import (
	"context"

	"ikhokha-gateway/internal/domain/model"
)

// ProcessorClient is the hex port for the external payment processor.
// Both calls are synchronous, signed HTTP requests; a timeout or transport
// error is indistinguishable from an explicit failure response to callers.
type ProcessorClient interface {
	Name() string

	// CreatePaymentLink posts a signed payment-link request and returns the
	// hosted payment page the buyer should be redirected to.
	CreatePaymentLink(ctx context.Context, req *model.PaymentRequest) (*model.PaymentLink, error)

	// Refund submits a signed refund against a settled transaction. The
	// transaction id is part of the signed string, so it must be resolved
	// before this call.
	Refund(ctx context.Context, transactionID string, req *model.RefundRequest) (*model.RefundResult, error)
}
