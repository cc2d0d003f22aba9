package models

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	CustomerID             int64  `json:"customer_id" validate:"required,gt=0"`
	Name                   string `json:"name" validate:"required"`
	Surname                string `json:"surname" validate:"required"`
	NationalIdentityNumber string `json:"national_identity_number" validate:"required"`
	Address                string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name                   string `json:"name" validate:"required"`
	Surname                string `json:"surname" validate:"required"`
	NationalIdentityNumber string `json:"national_identity_number" validate:"required"`
	Address                string `json:"address"`
}

type CreateOrderRequest struct {
	CustomerID int64            `json:"customer_id" validate:"required,gt=0"`
	AssetName  string           `json:"asset_name" validate:"required"`
	Side       OrderSide        `json:"side" validate:"required,oneof=BUY SELL"`
	Size       *decimal.Decimal `json:"size" validate:"required"`
	Price      *decimal.Decimal `json:"price" validate:"required"`
}

type DepositRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}
