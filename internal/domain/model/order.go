package model

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // awaiting payment
	OrderStatusProcessing OrderStatus = "processing" // paid; fulfilment may begin
	OrderStatusFailed     OrderStatus = "failed"     // payment failed or was declined
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Metadata keys this service writes against an order. The order store owns
// the orders; we only annotate them.
const (
	MetaPaymentURL   = "ikhokha_payment_url" // hosted payment page link
	MetaCallbackData = "ikhokha_data"        // last verified callback payload (JSON)
)

// Order is the external order record as this service sees it. Created and
// owned by the storefront's order store; never created or deleted here.
type Order struct {
	ID               int64
	CustomerID       int64
	Status           OrderStatus
	Total            string // decimal in major units, store formatting
	Currency         string
	BillingEmail     string
	BillingPhone     string
	BillingFirstName string
	BillingLastName  string
	TransactionID    string // processor transaction id, set on payment completion
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (o *Order) CustomerName() string {
	return strings.TrimSpace(o.BillingFirstName + " " + o.BillingLastName)
}
