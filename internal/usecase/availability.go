// File: internal/usecase/availability.go
package usecase

// GatewayID is the identifier under which the iKhokha gateway registers in
// the checkout's gateway list.
const GatewayID = "ikhokha"

// Gateway is one entry in the storefront's candidate gateway list.
type Gateway struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AvailableForCurrency reports whether the iKhokha gateway may be offered
// at checkout. iKhokha settles in South African rand only.
func AvailableForCurrency(currency string) bool {
	return currency == "ZAR"
}

// FilterGateways removes the iKhokha gateway from the candidate set unless
// the store currency allows it. Other gateways pass through untouched.
func FilterGateways(gateways []Gateway, currency string) []Gateway {
	if AvailableForCurrency(currency) {
		return gateways
	}
	out := make([]Gateway, 0, len(gateways))
	for _, g := range gateways {
		if g.ID == GatewayID {
			continue
		}
		out = append(out, g)
	}
	return out
}
