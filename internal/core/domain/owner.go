package domain

// Owner is the owner directory projection of a user: who owns recurring items and in
// which currency their balances settle.
type Owner struct {
	OwnerID              int64 `json:"ownerID"`
	SettlementCurrencyID int64 `json:"settlementCurrencyID"`
	IsActive             bool  `json:"isActive"`
}
