package model

// CallbackData is the asynchronous payment notification the processor posts
// back. Status is the only required field. Optional fields carry omitempty
// so the canonical serialization used for signature verification contains
// exactly the fields the processor sent.
type CallbackData struct {
	Status          string `json:"status"`
	TransactionID   string `json:"transactionId,omitempty"`
	ResponseCode    string `json:"responseCode,omitempty"`
	ResponseMessage string `json:"responseMessage,omitempty"`
}
