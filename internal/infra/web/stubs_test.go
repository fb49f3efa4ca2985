//go:build !integration

package web

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/infra/payment"
	"ikhokha-gateway/internal/usecase"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

type stubCheckout struct {
	InitiateFunc func(ctx context.Context, orderID int64) (string, error)
}

func (s *stubCheckout) Initiate(ctx context.Context, orderID int64) (string, error) {
	if s.InitiateFunc != nil {
		return s.InitiateFunc(ctx, orderID)
	}
	return "https://pay.example.com/abc/ORDER1", nil
}

func (s *stubCheckout) RetryURL(orderID int64) string {
	return "https://shop.example.com/pay?order=55"
}

type stubCallback struct {
	ReconcileFunc func(ctx context.Context, orderID int64, data *model.CallbackData) (usecase.CallbackOutcome, error)

	calls    int
	lastID   int64
	lastData *model.CallbackData
}

func (s *stubCallback) Reconcile(ctx context.Context, orderID int64, data *model.CallbackData) (usecase.CallbackOutcome, error) {
	s.calls++
	s.lastID = orderID
	s.lastData = data
	if s.ReconcileFunc != nil {
		return s.ReconcileFunc(ctx, orderID, data)
	}
	return usecase.CallbackAccepted, nil
}

type stubRefunds struct {
	RefundFunc func(ctx context.Context, orderID int64, amount, reason string) error

	lastAmount string
	lastReason string
}

func (s *stubRefunds) Refund(ctx context.Context, orderID int64, amount, reason string) error {
	s.lastAmount = amount
	s.lastReason = reason
	if s.RefundFunc != nil {
		return s.RefundFunc(ctx, orderID, amount, reason)
	}
	return nil
}

type stubOrders struct {
	meta map[string]string
}

func (s *stubOrders) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrders) MarkProcessing(ctx context.Context, id int64, note string) (bool, error) {
	return false, nil
}

func (s *stubOrders) MarkFailed(ctx context.Context, id int64, note string) (bool, error) {
	return false, nil
}

func (s *stubOrders) RecordPaymentComplete(ctx context.Context, id int64, transactionID string, paidAt time.Time) error {
	return nil
}

func (s *stubOrders) SetMetadata(ctx context.Context, id int64, key, value string) error {
	if s.meta == nil {
		s.meta = make(map[string]string)
	}
	s.meta[key] = value
	return nil
}

func (s *stubOrders) GetMetadata(ctx context.Context, id int64, key string) (string, error) {
	return s.meta[key], nil
}

func (s *stubOrders) AddNote(ctx context.Context, id int64, note string) error { return nil }

const (
	testAppID  = "app1"
	testSecret = "s3cret"
	testAPIKey = "admin-key"
)

func newTestServer(checkout *stubCheckout, callback *stubCallback, refunds *stubRefunds, orders *stubOrders) *Server {
	if checkout == nil {
		checkout = &stubCheckout{}
	}
	if callback == nil {
		callback = &stubCallback{}
	}
	if refunds == nil {
		refunds = &stubRefunds{}
	}
	if orders == nil {
		orders = &stubOrders{}
	}
	auth := NewAuthManager("session-secret", false, "", 30*time.Minute)
	gateways := []usecase.Gateway{{ID: usecase.GatewayID, Title: "iKhokha"}}
	return NewServer(
		checkout, callback, refunds, orders,
		payment.NewSigner(testSecret), testAppID,
		gateways, "ZAR",
		auth, testAPIKey,
		newTestLogger(),
	)
}
