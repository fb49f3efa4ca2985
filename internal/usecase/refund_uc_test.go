//go:build !integration

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
)

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the transaction id from the stored callback payload", func(t *testing.T) {
		repo := newMemOrderRepo()
		repo.put(pendingOrder(55))
		_ = repo.SetMetadata(ctx, 55, model.MetaCallbackData, `{"status":"SUCCESS","transactionId":"TXN123"}`)
		proc := &mockProcessor{}
		uc := NewRefundUseCase(repo, proc, "ZAR", ".", newTestLogger())

		if err := uc.Refund(ctx, 55, "12.50", "customer request"); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if proc.lastTxnID != "TXN123" {
			t.Errorf("expected TXN123, got %q", proc.lastTxnID)
		}
		if proc.lastRefund.Amount != 1250 {
			t.Errorf("expected 1250 minor units, got %d", proc.lastRefund.Amount)
		}
		if proc.lastRefund.Reason != "customer request" {
			t.Errorf("unexpected reason: %q", proc.lastRefund.Reason)
		}

		found := false
		for _, n := range repo.notes[55] {
			if strings.Contains(n, "ZAR 12.50 was successfully refunded through iKhokha") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected refund note on the order, got %v", repo.notes[55])
		}
	})

	t.Run("falls back to the payment link's trailing segment", func(t *testing.T) {
		repo := newMemOrderRepo()
		repo.put(pendingOrder(55))
		_ = repo.SetMetadata(ctx, 55, model.MetaPaymentURL, "https://pay.example.com/link/abc/XYZ789")
		proc := &mockProcessor{}
		uc := NewRefundUseCase(repo, proc, "ZAR", ".", newTestLogger())

		if err := uc.Refund(ctx, 55, "12.50", ""); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if proc.lastTxnID != "XYZ789" {
			t.Errorf("expected XYZ789, got %q", proc.lastTxnID)
		}
	})

	t.Run("callback payload without a transaction id still falls back", func(t *testing.T) {
		repo := newMemOrderRepo()
		repo.put(pendingOrder(55))
		_ = repo.SetMetadata(ctx, 55, model.MetaCallbackData, `{"status":"SUCCESS"}`)
		_ = repo.SetMetadata(ctx, 55, model.MetaPaymentURL, "https://pay.example.com/link/abc/XYZ789")
		proc := &mockProcessor{}
		uc := NewRefundUseCase(repo, proc, "ZAR", ".", newTestLogger())

		if err := uc.Refund(ctx, 55, "1.00", ""); err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if proc.lastTxnID != "XYZ789" {
			t.Errorf("expected XYZ789, got %q", proc.lastTxnID)
		}
	})

	t.Run("no transaction id anywhere", func(t *testing.T) {
		repo := newMemOrderRepo()
		repo.put(pendingOrder(55))
		proc := &mockProcessor{}
		uc := NewRefundUseCase(repo, proc, "ZAR", ".", newTestLogger())

		err := uc.Refund(ctx, 55, "1.00", "")
		if !errors.Is(err, domain.ErrNoTransactionID) {
			t.Errorf("expected ErrNoTransactionID, but got %v", err)
		}
		if proc.refundCalls != 0 {
			t.Errorf("expected no processor call, got %d", proc.refundCalls)
		}
	})

	t.Run("invalid amount never reaches the processor", func(t *testing.T) {
		repo := newMemOrderRepo()
		repo.put(pendingOrder(55))
		_ = repo.SetMetadata(ctx, 55, model.MetaCallbackData, `{"status":"SUCCESS","transactionId":"TXN123"}`)
		proc := &mockProcessor{}
		uc := NewRefundUseCase(repo, proc, "ZAR", ".", newTestLogger())

		err := uc.Refund(ctx, 55, "-5.00", "")
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, but got %v", err)
		}
		if proc.refundCalls != 0 {
			t.Errorf("expected no processor call, got %d", proc.refundCalls)
		}
	})

	t.Run("processor rejection is surfaced without a note", func(t *testing.T) {
		repo := newMemOrderRepo()
		repo.put(pendingOrder(55))
		_ = repo.SetMetadata(ctx, 55, model.MetaCallbackData, `{"status":"SUCCESS","transactionId":"TXN123"}`)
		proc := &mockProcessor{
			RefundFunc: func(ctx context.Context, transactionID string, req *model.RefundRequest) (*model.RefundResult, error) {
				return nil, domain.ErrRefundRejected
			},
		}
		uc := NewRefundUseCase(repo, proc, "ZAR", ".", newTestLogger())

		err := uc.Refund(ctx, 55, "1.00", "")
		if !errors.Is(err, domain.ErrRefundRejected) {
			t.Errorf("expected ErrRefundRejected, but got %v", err)
		}
		if len(repo.notes[55]) != 0 {
			t.Errorf("rejected refund must not leave a success note, got %v", repo.notes[55])
		}
	})
}

func TestTransactionIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"plain link", "https://pay.example.com/link/abc/XYZ789", "XYZ789"},
		{"surrounding whitespace", "  https://pay.example.com/link/abc/XYZ789 ", "XYZ789"},
		{"bare segment", "XYZ789", "XYZ789"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TransactionIDFromURL(tc.url)
			if err != nil {
				t.Fatalf("expected no error, but got: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}

	t.Run("trailing slash has no segment", func(t *testing.T) {
		_, err := TransactionIDFromURL("https://pay.example.com/link/")
		if !errors.Is(err, domain.ErrNoTransactionID) {
			t.Errorf("expected ErrNoTransactionID, but got %v", err)
		}
	})

	t.Run("empty url has no segment", func(t *testing.T) {
		_, err := TransactionIDFromURL("")
		if !errors.Is(err, domain.ErrNoTransactionID) {
			t.Errorf("expected ErrNoTransactionID, but got %v", err)
		}
	})
}
