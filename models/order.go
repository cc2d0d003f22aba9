package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Side       OrderSide       `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
	Status     OrderStatus     `json:"status"`
	CreateDate time.Time       `json:"create_date"`
}

// TotalCost is the cash-leg amount of the order (size * price).
func (o Order) TotalCost() decimal.Decimal {
	return o.Size.Mul(o.Price)
}
