// File: internal/infra/web/server.go
package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/domain/ports/repository"
	"ikhokha-gateway/internal/infra/payment"
	"ikhokha-gateway/internal/usecase"
)

type Server struct {
	checkout usecase.CheckoutUseCase
	callback usecase.CallbackUseCase
	refunds  usecase.RefundUseCase
	orders   repository.OrderRepository

	signer   *payment.Signer
	appID    string
	gateways []usecase.Gateway
	currency string

	auth        *AuthManager
	adminAPIKey string
	log         *zerolog.Logger
}

func NewServer(
	checkout usecase.CheckoutUseCase,
	callback usecase.CallbackUseCase,
	refunds usecase.RefundUseCase,
	orders repository.OrderRepository,
	signer *payment.Signer,
	appID string,
	gateways []usecase.Gateway,
	currency string,
	auth *AuthManager,
	adminAPIKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkout:    checkout,
		callback:    callback,
		refunds:     refunds,
		orders:      orders,
		signer:      signer,
		appID:       appID,
		gateways:    gateways,
		currency:    currency,
		auth:        auth,
		adminAPIKey: adminAPIKey,
		log:         logger,
	}
}

func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// The processor posts payment outcomes here.
	r.Post("/api/v1/payment/callback", s.handleCallback)

	r.Get("/api/v1/gateways", s.handleGateways)
	r.Post("/api/v1/admin/login", s.handleLogin)

	r.Route("/api/v1/orders/{id}", func(r chi.Router) {
		r.Post("/checkout", s.handleCheckout)
		r.With(s.requireAdmin).Post("/refunds", s.handleRefund)
		r.With(s.requireAdmin).Get("/transaction", s.handleTransaction)
	})

	return r
}

// requireAdmin guards the admin surface (refunds, transaction data) with a
// JWT session minted by the login handler.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.adminAPIKey == "" {
		s.log.Error().Msg("admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	key := r.Header.Get("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Failed to mint session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{Token: token})
}

type checkoutResponse struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
	Message  string `json:"message,omitempty"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	redirect, err := s.checkout.Initiate(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.NotFound(w, r)
			return
		}
		// The buyer only ever sees a short notice and a way back to the
		// payment page; the underlying failure stays in the logs.
		writeJSON(w, http.StatusBadGateway, checkoutResponse{
			Result:   "failure",
			Redirect: s.checkout.RetryURL(orderID),
			Message:  "Invalid connection to iKhokha - Try again.",
		})
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{Result: "success", Redirect: redirect})
}

type refundRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.refunds.Refund(r.Context(), orderID, req.Amount, req.Reason); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrRefundRejected):
			// Admin-facing: the processor's message is passed through.
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, domain.ErrNoTransactionID), errors.Is(err, domain.ErrNotSignable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Unable to process a refund.", http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: model.RefundStatusSuccess})
}

// handleTransaction surfaces the stored transaction data for an order, the
// way an order admin screen would display it.
func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	raw, err := s.orders.GetMetadata(r.Context(), orderID, model.MetaCallbackData)
	if err != nil {
		http.Error(w, "Failed to read order metadata", http.StatusInternalServerError)
		return
	}
	if raw == "" {
		http.NotFound(w, r)
		return
	}
	var data model.CallbackData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		http.Error(w, "Stored metadata is malformed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleGateways(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = s.currency
	}
	response := struct {
		Data []usecase.Gateway `json:"data"`
	}{
		Data: usecase.FilterGateways(s.gateways, currency),
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
