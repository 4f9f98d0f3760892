package models

// Currency represents a row of the currencies reference table.
type Currency struct {
	CurrencyID int64  `json:"currencyID" db:"currency_id"` // Primary Key
	Alias      string `json:"alias" db:"alias"`            // e.g., "USD"
	Name       string `json:"name" db:"name"`              // e.g., "US Dollar"
	Symbol     string `json:"symbol" db:"symbol"`          // e.g., "$"
}
