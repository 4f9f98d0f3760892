package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyID int64  `json:"currencyID"` // Primary Key
	Alias      string `json:"alias"`      // ISO code, e.g. "USD"
	Name       string `json:"name"`       // e.g., "US Dollar"
	Symbol     string `json:"symbol"`     // e.g., "$"
}
