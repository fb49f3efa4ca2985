package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"ikhokha-gateway/internal/domain"
)

const (
	createSignPath   = "/ecomm/v1/paymentlinks"
	callbackSignPath = "/"
)

// Signer computes the HMAC-SHA256 digests iKhokha expects on every protocol
// interaction. Each interaction signs a fixed path template followed by the
// canonical JSON serialization of the payload, keyed by the merchant's
// application secret.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// SignCreate signs a payment-link creation payload.
func (s *Signer) SignCreate(payload interface{}) (string, error) {
	return s.sign(createSignPath, payload)
}

// SignCallback signs an inbound callback payload for verification against
// the IK-SIGN header.
func (s *Signer) SignCallback(payload interface{}) (string, error) {
	return s.sign(callbackSignPath, payload)
}

// SignRefund signs a refund payload. The transaction id is part of the
// signed string, so it must be resolved before signing.
func (s *Signer) SignRefund(transactionID string, payload interface{}) (string, error) {
	if transactionID == "" {
		return "", domain.ErrNoTransactionID
	}
	return s.sign("/ecomm/"+transactionID+"/refunds", payload)
}

func (s *Signer) sign(prefix string, payload interface{}) (string, error) {
	// An unsignable payload is a hard stop, never an unsigned request.
	if s.secret == "" || payload == nil {
		return "", domain.ErrNotSignable
	}
	body, err := CanonicalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("canonical json: %w", err)
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(prefix))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// CanonicalJSON serializes v exactly the way the processor serializes
// payloads before signing: standard UTF-8 JSON with no HTML escaping,
// forward slashes escaped as `\/`, struct field order preserved. The same
// bytes are used as the HTTP request body, so the signature always covers
// what is transmitted.
func CanonicalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	b := bytes.TrimRight(buf.Bytes(), "\n")
	// `/` never occurs inside a JSON escape sequence, so a blind replace is
	// safe here.
	return bytes.ReplaceAll(b, []byte("/"), []byte(`\/`)), nil
}

// VerifySignature compares a locally computed hex digest with the one a
// network peer presented. Hex case is ignored and the comparison is
// constant time.
func VerifySignature(computed, presented string) bool {
	a := []byte(strings.ToLower(computed))
	b := []byte(strings.ToLower(presented))
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
