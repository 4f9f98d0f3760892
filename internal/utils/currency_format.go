package utils

import (
	"github.com/shopspring/decimal"
)

// PersistencePrecision is the number of decimal places amounts are stored with.
const PersistencePrecision = 2

// RoundForPersistence rounds an amount half away from zero to PersistencePrecision places.
// Conversions keep full precision; rounding only happens right before storage or display.
func RoundForPersistence(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(PersistencePrecision)
}

// FormatWithPrecision formats an amount with the given precision
// Example: amount 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
