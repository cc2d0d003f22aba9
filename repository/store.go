package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mustafasamisahin/brokage-module/models"
)

// BalanceStore is the durable (customerID, assetName) -> balance mapping.
// Adjust is the sole atomic primitive: read the current row, apply both
// deltas, reject if the result would break 0 <= usable_size <= size, and
// commit, all as one indivisible step per key. Concurrent calls on the same
// key serialize; disjoint keys never block each other.
type BalanceStore interface {
	Get(ctx context.Context, customerID int64, assetName string) (*models.Asset, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Asset, error)
	SearchByName(ctx context.Context, customerID int64, assetName string) ([]models.Asset, error)
	CreateIfAbsent(ctx context.Context, customerID int64, assetName string, size, usableSize decimal.Decimal) (*models.Asset, error)

	// Adjust returns models.ErrAssetNotFound if the row does not exist and
	// models.ErrInsufficientFunds if either post-adjustment column would
	// violate the invariant. On success it returns the new balance.
	Adjust(ctx context.Context, customerID int64, assetName string, deltaSize, deltaUsable decimal.Decimal) (*models.Asset, error)
}

// OrderStore persists the append-only order history. Orders are created
// once and mutated only through TransitionStatus; they are never deleted.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	// ListByCustomerAndDateRange bounds are inclusive; a zero-valued
	// status matches any status.
	ListByCustomerAndDateRange(ctx context.Context, customerID int64, from, to time.Time, status models.OrderStatus) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)

	// TransitionStatus is a compare-and-set on the status column: it
	// succeeds only if the order currently holds from. A concurrent loser
	// gets models.ErrInvalidOrderStatus.
	TransitionStatus(ctx context.Context, id int64, from, to models.OrderStatus) error
}

type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, customerID int64) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, customerID int64) error
	// ExistsByNationalID ignores the row owned by exceptCustomerID so
	// updates can keep their own identity number.
	ExistsByNationalID(ctx context.Context, nationalID string, exceptCustomerID int64) (bool, error)
}
