//go:build !integration

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// --- in-memory order repo ---

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[int64]*model.Order
	meta   map[int64]map[string]string
	notes  map[int64][]string

	// optional error hooks
	findErr           error
	markProcessingErr error
	setMetadataErr    error

	// optional overrides
	MarkProcessingFunc func(ctx context.Context, id int64, note string) (bool, error)
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[int64]*model.Order),
		meta:   make(map[int64]map[string]string),
		notes:  make(map[int64][]string),
	}
}

func (m *memOrderRepo) put(o *model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.orders[o.ID] = &cp
}

func (m *memOrderRepo) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) MarkProcessing(ctx context.Context, id int64, note string) (bool, error) {
	if m.MarkProcessingFunc != nil {
		return m.MarkProcessingFunc(ctx, id, note)
	}
	if m.markProcessingErr != nil {
		return false, m.markProcessingErr
	}
	return m.transition(id, model.OrderStatusProcessing, note)
}

func (m *memOrderRepo) MarkFailed(ctx context.Context, id int64, note string) (bool, error) {
	return m.transition(id, model.OrderStatusFailed, note)
}

func (m *memOrderRepo) transition(id int64, to model.OrderStatus, note string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status == model.OrderStatusProcessing {
		return false, nil
	}
	o.Status = to
	if note != "" {
		m.notes[id] = append(m.notes[id], note)
	}
	return true, nil
}

func (m *memOrderRepo) RecordPaymentComplete(ctx context.Context, id int64, transactionID string, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok {
		o.TransactionID = transactionID
		o.PaidAt = &paidAt
	}
	return nil
}

func (m *memOrderRepo) SetMetadata(ctx context.Context, id int64, key, value string) error {
	if m.setMetadataErr != nil {
		return m.setMetadataErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.meta[id] == nil {
		m.meta[id] = make(map[string]string)
	}
	m.meta[id][key] = value
	return nil
}

func (m *memOrderRepo) GetMetadata(ctx context.Context, id int64, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta[id][key], nil
}

func (m *memOrderRepo) AddNote(ctx context.Context, id int64, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[id] = append(m.notes[id], note)
	return nil
}

// --- inventory / cart mocks ---

type mockInventory struct {
	mu      sync.Mutex
	reduced map[int64]int
	err     error
}

func newMockInventory() *mockInventory { return &mockInventory{reduced: make(map[int64]int)} }

func (m *mockInventory) ReduceStock(ctx context.Context, orderID int64) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reduced[orderID]++
	return nil
}

type mockCarts struct {
	mu      sync.Mutex
	cleared map[int64]int
}

func newMockCarts() *mockCarts { return &mockCarts{cleared: make(map[int64]int)} }

func (m *mockCarts) Clear(ctx context.Context, customerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared[customerID]++
	return nil
}

// --- locker mock ---

type mockLocker struct {
	mu     sync.Mutex
	held   map[string]string
	tryErr error
}

func newMockLocker() *mockLocker { return &mockLocker{held: make(map[string]string)} }

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.tryErr != nil {
		return "", m.tryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.held[key]; taken {
		return "", domain.ErrOrderLocked
	}
	m.held[key] = "tok-" + key
	return m.held[key], nil
}

func (m *mockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] == token {
		delete(m.held, key)
	}
	return nil
}

// --- processor mock ---

type mockProcessor struct {
	CreatePaymentLinkFunc func(ctx context.Context, req *model.PaymentRequest) (*model.PaymentLink, error)
	RefundFunc            func(ctx context.Context, transactionID string, req *model.RefundRequest) (*model.RefundResult, error)

	createCalls int
	refundCalls int
	lastCreate  *model.PaymentRequest
	lastTxnID   string
	lastRefund  *model.RefundRequest
}

func (m *mockProcessor) Name() string { return "ikhokha" }

func (m *mockProcessor) CreatePaymentLink(ctx context.Context, req *model.PaymentRequest) (*model.PaymentLink, error) {
	m.createCalls++
	m.lastCreate = req
	if m.CreatePaymentLinkFunc != nil {
		return m.CreatePaymentLinkFunc(ctx, req)
	}
	return &model.PaymentLink{PaymentURL: "https://pay.example.com/abc/ORDER1"}, nil
}

func (m *mockProcessor) Refund(ctx context.Context, transactionID string, req *model.RefundRequest) (*model.RefundResult, error) {
	m.refundCalls++
	m.lastTxnID = transactionID
	m.lastRefund = req
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, transactionID, req)
	}
	return &model.RefundResult{Status: model.RefundStatusSuccess}, nil
}
