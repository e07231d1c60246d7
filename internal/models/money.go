package models

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places stored for every amount.
const MoneyScale = 2

func init() {
	// Amounts are exchanged as JSON numbers, matching the legacy clients.
	decimal.MarshalJSONWithoutQuotes = true
}

// WholeCents reports whether d has no digits beyond MoneyScale. Amounts that
// would be rounded on storage are rejected so persisted totals stay consistent.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}
