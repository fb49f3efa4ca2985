// File: internal/infra/web/webhook.go
package web

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/infra/logging"
	"ikhokha-gateway/internal/infra/metrics"
	"ikhokha-gateway/internal/infra/payment"
	"ikhokha-gateway/internal/usecase"
)

const maxCallbackBody = 64 << 10

// handleCallback is the unauthenticated webhook the processor posts payment
// outcomes to. Everything up to a verified signature and app id is treated
// as hostile: any failure terminates the request with a bare server-error
// status and no diagnostic for the caller.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	data := parseCallbackPayload(r)
	reference := r.URL.Query().Get("reference")
	if data == nil || data.Status == "" || reference == "" {
		s.rejectCallback(w, domain.ErrMalformedCallback)
		return
	}

	computed, err := s.signer.SignCallback(data)
	if err != nil {
		s.rejectCallback(w, err)
		return
	}
	if !payment.VerifySignature(computed, r.Header.Get("IK-SIGN")) {
		s.rejectCallback(w, domain.ErrSignatureMismatch)
		return
	}
	if subtle.ConstantTimeCompare([]byte(s.appID), []byte(r.Header.Get("IK-APPID"))) != 1 {
		s.rejectCallback(w, domain.ErrAppIDMismatch)
		return
	}

	orderID, err := strconv.ParseInt(reference, 10, 64)
	if err != nil {
		s.rejectCallback(w, domain.ErrMalformedCallback)
		return
	}

	ctx := logging.WithOrderID(logging.WithReference(r.Context(), reference), orderID)
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		ctx = logging.WithRequestID(ctx, reqID)
	}
	log := logging.With(ctx, s.log)

	outcome, err := s.callback.Reconcile(ctx, orderID, data)
	if err != nil {
		log.Warn().Err(err).Msg("callback reconciliation refused")
	}
	switch outcome {
	case usecase.CallbackAccepted:
		writeJSON(w, http.StatusOK, callbackResponse{Status: true})
	case usecase.CallbackFailed:
		// Acknowledged failure: the order was updated, so the delivery is
		// answered 200 rather than provoking a redelivery (see DESIGN.md).
		writeJSON(w, http.StatusOK, callbackResponse{Status: false})
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

type callbackResponse struct {
	Status bool `json:"status"`
}

func (s *Server) rejectCallback(w http.ResponseWriter, reason error) {
	s.log.Warn().Err(reason).Msg("callback rejected")
	metrics.IncCallback("unauthenticated")
	w.WriteHeader(http.StatusInternalServerError)
}

// parseCallbackPayload accepts exactly one of the two encodings the
// processor uses: form fields win when a non-empty status field is present,
// otherwise the raw body is parsed as JSON. Returns nil when neither
// yields a payload.
func parseCallbackPayload(r *http.Request) *model.CallbackData {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		return nil
	}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if vals, err := url.ParseQuery(string(raw)); err == nil {
			if status := sanitizeText(vals.Get("status")); status != "" {
				data := &model.CallbackData{Status: status}
				if v := sanitizeKey(vals.Get("transactionId")); v != "" {
					data.TransactionID = v
				}
				if v := sanitizeText(vals.Get("responseCode")); v != "" {
					data.ResponseCode = v
				}
				if v := sanitizeText(vals.Get("responseMessage")); v != "" {
					data.ResponseMessage = v
				}
				return data
			}
		}
	}

	var data model.CallbackData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return &data
}

// sanitizeText trims whitespace and strips control characters from a form
// field value.
func sanitizeText(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s))
}

// sanitizeKey reduces an identifier-like field to [A-Za-z0-9_-].
func sanitizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
}
