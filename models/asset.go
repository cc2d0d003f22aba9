package models

import "github.com/shopspring/decimal"

// Asset is one balance row: total units owned and the portion not
// reserved by a pending order. Invariant between operations:
// 0 <= UsableSize <= Size. The gap Size-UsableSize is the amount held
// in escrow against open orders.
type Asset struct {
	CustomerID int64           `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Size       decimal.Decimal `json:"size"`
	UsableSize decimal.Decimal `json:"usable_size"`
}

// Reserved returns the amount currently locked by pending orders.
func (a Asset) Reserved() decimal.Decimal {
	return a.Size.Sub(a.UsableSize)
}
