// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/config"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/domain/ports/adapter"
	"ikhokha-gateway/internal/domain/ports/repository"
	"ikhokha-gateway/internal/infra/logging"
	"ikhokha-gateway/internal/infra/metrics"
	"ikhokha-gateway/internal/version"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Initiate builds, signs and posts a payment-link request for the order
	// and returns the hosted payment page URL the buyer must be redirected
	// to. Failures are returned as plain errors; the caller reroutes the
	// buyer to RetryURL with a short notice.
	Initiate(ctx context.Context, orderID int64) (string, error)
	// RetryURL is the payment page the buyer falls back to when link
	// creation fails.
	RetryURL(orderID int64) string
}

type checkoutUC struct {
	orders    repository.OrderRepository
	processor adapter.ProcessorClient
	gw        config.IkhokhaConfig
	store     config.StoreConfig
	log       *zerolog.Logger
}

func NewCheckoutUseCase(orders repository.OrderRepository, processor adapter.ProcessorClient, gw config.IkhokhaConfig, store config.StoreConfig, logger *zerolog.Logger) *checkoutUC {
	return &checkoutUC{orders: orders, processor: processor, gw: gw, store: store, log: logger}
}

func (u *checkoutUC) Initiate(ctx context.Context, orderID int64) (string, error) {
	defer logging.TraceDuration(u.log, "CheckoutUC.Initiate")()

	ord, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	u.log.Debug().
		Int64("order_id", orderID).
		Str("customer_email", logging.Redact(ord.BillingEmail, false)).
		Msg("initiating payment link")

	// Re-entering checkout for an order that already holds a link reuses
	// it instead of minting a duplicate on the processor side.
	if link, err := u.orders.GetMetadata(ctx, orderID, model.MetaPaymentURL); err == nil &&
		link != "" && ord.Status == model.OrderStatusPending {
		metrics.IncPaymentLink("reused")
		return link, nil
	}

	amount, err := model.ToMinorUnits(ord.Total, u.store.DecimalSeparator)
	if err != nil {
		return "", err
	}

	payload := &model.PaymentRequest{
		Amount:        amount,
		CallbackURL:   u.callbackURL(orderID),
		SuccessURL:    withOrderRef(u.store.SuccessURL, orderID),
		FailURL:       u.RetryURL(orderID),
		Test:          u.gw.TestMode,
		CustomerEmail: ord.BillingEmail,
		CustomerPhone: ord.BillingPhone,
		CustomerName:  ord.CustomerName(),
		Client: model.ClientDetails{
			PlatformName:    u.store.Name,
			PlatformVersion: version.Version,
			PluginVersion:   version.Version,
			Website:         u.store.Website,
		},
	}

	link, err := u.processor.CreatePaymentLink(ctx, payload)
	if err != nil {
		u.log.Error().Err(err).Int64("order_id", orderID).Msg("payment link creation failed")
		metrics.IncPaymentLink("failed")
		return "", err
	}

	if err := u.orders.SetMetadata(ctx, orderID, model.MetaPaymentURL, link.PaymentURL); err != nil {
		u.log.Error().Err(err).Int64("order_id", orderID).Msg("persist payment link failed")
		return "", err
	}
	metrics.IncPaymentLink("initiated")
	return link.PaymentURL, nil
}

func (u *checkoutUC) RetryURL(orderID int64) string {
	return withOrderRef(u.store.PaymentPageURL, orderID)
}

// callbackURL builds the webhook URL the processor will post back to,
// carrying the order id as the reference query parameter. The scheme is
// forced to https: callbacks never travel in the clear.
func (u *checkoutUC) callbackURL(orderID int64) string {
	parsed, err := url.Parse(u.store.CallbackURL)
	if err != nil {
		return u.store.CallbackURL
	}
	parsed.Scheme = "https"
	q := parsed.Query()
	q.Set("reference", strconv.FormatInt(orderID, 10))
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

func withOrderRef(base string, orderID int64) string {
	if base == "" {
		return ""
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := parsed.Query()
	q.Set("order", strconv.FormatInt(orderID, 10))
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
