package models

import "errors"

// Business-outcome errors surfaced directly to callers. None of these
// are retried internally; the HTTP layer maps them to 4xx responses.
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrDuplicateCustomer  = errors.New("customer already exists")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
