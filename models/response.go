package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderResponse struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Side       OrderSide       `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Status     OrderStatus     `json:"status"`
	CreateDate time.Time       `json:"create_date"`
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		AssetName:  o.AssetName,
		Side:       o.Side,
		Size:       o.Size,
		Price:      o.Price,
		TotalValue: o.TotalCost(),
		Status:     o.Status,
		CreateDate: o.CreateDate,
	}
}

type AssetResponse struct {
	CustomerID int64           `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Size       decimal.Decimal `json:"size"`
	UsableSize decimal.Decimal `json:"usable_size"`
	Reserved   decimal.Decimal `json:"reserved"`
}

func ToAssetResponse(a *Asset) AssetResponse {
	return AssetResponse{
		CustomerID: a.CustomerID,
		AssetName:  a.AssetName,
		Size:       a.Size,
		UsableSize: a.UsableSize,
		Reserved:   a.Reserved(),
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
