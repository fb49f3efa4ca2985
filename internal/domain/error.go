package domain

import "errors"

var (
	// Common domain errors
	ErrOrderNotFound            = errors.New("order not found")
	ErrAlreadyProcessed         = errors.New("order already processed")
	ErrOrderLocked              = errors.New("order is locked by another reconciliation")
	ErrInvalidAmount            = errors.New("invalid monetary amount")
	ErrNotSignable              = errors.New("payload cannot be signed")
	ErrSignatureMismatch        = errors.New("callback signature mismatch")
	ErrAppIDMismatch            = errors.New("callback application id mismatch")
	ErrMalformedCallback        = errors.New("callback payload is missing required fields")
	ErrUnknownTransactionStatus = errors.New("unknown transaction status")
	ErrPaymentLinkFailed        = errors.New("payment link creation failed")
	ErrNoTransactionID          = errors.New("no transaction id recorded for order")
	ErrRefundRejected           = errors.New("refund rejected by processor")
	ErrRefundFailed             = errors.New("unable to process a refund")
	ErrOperationFailed          = errors.New("storage operation failed")
)
