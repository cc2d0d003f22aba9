package models

// CashAssetName is the asset that carries a customer's cash balance.
// It funds the cash leg of every BUY and can never itself be sold.
const CashAssetName = "TRY"

type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

func (s OrderSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusMatched  OrderStatus = "MATCHED"
	StatusCanceled OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	return s == StatusPending || s == StatusMatched || s == StatusCanceled
}

// Terminal reports whether no further transition exists out of s.
func (s OrderStatus) Terminal() bool {
	return s == StatusMatched || s == StatusCanceled
}
