package coc

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// QuantityScale is the number of decimal places every ledger quantity column holds
const QuantityScale = 4

// FitsQuantityScale reports whether qty can be stored without rounding.
// Trailing zeros do not count, so "1.50000" fits.
func FitsQuantityScale(qty decimal.Decimal) bool {
	return qty.Equal(qty.Truncate(QuantityScale))
}

// CheckQuantityScale rejects a quantity the ledger would have to round
func CheckQuantityScale(field string, qty decimal.Decimal) error {
	if !FitsQuantityScale(qty) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("%s %s has more than %d decimal places", field, qty.String(), QuantityScale))
	}
	return nil
}
