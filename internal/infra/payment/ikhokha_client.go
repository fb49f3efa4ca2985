package payment

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ikhokha-gateway/internal/domain"
	"ikhokha-gateway/internal/domain/model"
	"ikhokha-gateway/internal/domain/ports/adapter"
	"ikhokha-gateway/internal/infra/metrics"
)

// Compile-time check
var _ adapter.ProcessorClient = (*Client)(nil)

const requestTimeout = 30 * time.Second

// Client talks to the iKhokha ecommerce API. Every request is signed with
// the application secret and authenticated with the IK-APPID / IK-SIGN
// header pair. TLS certificate verification is always on.
type Client struct {
	baseURL string
	appID   string
	signer  *Signer
	http    *http.Client
	log     *zerolog.Logger
}

func NewClient(baseURL, appID, appSecret string, logger *zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.ikhokha.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appID:   appID,
		signer:  NewSigner(appSecret),
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		log: logger,
	}
}

func (c *Client) Name() string { return "ikhokha" }

type createResponse struct {
	PaymentURL      string `json:"paymentUrl"`
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

func (c *Client) CreatePaymentLink(ctx context.Context, req *model.PaymentRequest) (*model.PaymentLink, error) {
	sig, err := c.signer.SignCreate(req)
	if err != nil {
		return nil, err
	}
	body, err := CanonicalJSON(req)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	started := time.Now()
	raw, err := c.post(ctx, c.baseURL+"/ecomm/v1/paymentlinks", sig, body)
	metrics.ObserveProcessorCall("create", time.Since(started), err == nil)
	if err != nil {
		return nil, err
	}

	var out createResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payment link response: %w", err)
	}
	if out.PaymentURL == "" {
		c.log.Warn().
			Str("response_code", out.ResponseCode).
			Str("response_message", out.ResponseMessage).
			Msg("payment link creation refused by processor")
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentLinkFailed, out.ResponseMessage)
	}
	return &model.PaymentLink{PaymentURL: out.PaymentURL}, nil
}

func (c *Client) Refund(ctx context.Context, transactionID string, req *model.RefundRequest) (*model.RefundResult, error) {
	sig, err := c.signer.SignRefund(transactionID, req)
	if err != nil {
		return nil, err
	}
	body, err := CanonicalJSON(req)
	if err != nil {
		return nil, fmt.Errorf("encode refund request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/ecomm/%s/refunds", c.baseURL, url.PathEscape(transactionID))
	started := time.Now()
	raw, err := c.post(ctx, endpoint, sig, body)
	metrics.ObserveProcessorCall("refund", time.Since(started), err == nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRefundFailed, err)
	}

	var out model.RefundResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: malformed response", domain.ErrRefundFailed)
	}
	switch out.Status {
	case model.RefundStatusSuccess:
		return &out, nil
	case model.RefundStatusFailure:
		return nil, fmt.Errorf("%w: %s", domain.ErrRefundRejected, out.ResponseMessage)
	default:
		return nil, domain.ErrRefundFailed
	}
}

func (c *Client) post(ctx context.Context, endpoint, signature string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("IK-APPID", c.appID)
	req.Header.Set("IK-SIGN", signature)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	// The API reports failures inside the JSON body rather than through
	// status codes, so the body is decoded regardless of resp.StatusCode.
	return raw, nil
}
