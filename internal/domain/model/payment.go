package model

// ClientDetails identifies the integrating platform to the processor.
type ClientDetails struct {
	PlatformName    string `json:"platformName"`
	PlatformVersion string `json:"platformVersion"`
	PluginVersion   string `json:"pluginVersion"`
	Website         string `json:"website"`
}

// PaymentRequest is the payment-link creation payload. Field order matters:
// the signature is computed over the serialized form, and the processor
// recomputes it from the identical structure, so fields are declared in the
// order they are transmitted.
type PaymentRequest struct {
	Amount        int64         `json:"amount"` // minor units, never negative
	CallbackURL   string        `json:"callbackUrl"`
	SuccessURL    string        `json:"successUrl"`
	FailURL       string        `json:"failUrl"`
	Test          bool          `json:"test"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	CustomerName  string        `json:"customerName"`
	Client        ClientDetails `json:"client"`
}

// PaymentLink is the successful creation result. The trailing path segment
// of PaymentURL doubles as the transaction id when a callback never carried
// one; the refund flow relies on that.
type PaymentLink struct {
	PaymentURL string `json:"paymentUrl"`
}

type RefundRequest struct {
	Amount int64  `json:"amount"` // minor units
	Reason string `json:"reason"`
}

const (
	RefundStatusSuccess = "SUCCESS"
	RefundStatusFailure = "FAILURE"
)

type RefundResult struct {
	Status          string `json:"status"`
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}
