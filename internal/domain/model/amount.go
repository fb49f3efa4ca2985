package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ikhokha-gateway/internal/domain"
)

// ToMinorUnits converts a decimal total in major currency units to an
// integer number of minor units (cents). The store's configured decimal
// separator is normalized to "." first, then the value is multiplied by 100
// and rounded half away from zero ("0.005" -> 1). Amounts are never
// negative on the wire.
func ToMinorUnits(amount, decimalSeparator string) (int64, error) {
	s := strings.TrimSpace(amount)
	if decimalSeparator != "" && decimalSeparator != "." {
		s = strings.ReplaceAll(s, decimalSeparator, ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, amount)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, amount)
	}
	return int64(math.Round(v * 100)), nil
}
