package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

// ReservationEngine owns the only mutation path to balances. Every
// operation is expressed through the store's atomic Adjust primitive:
//
//	reserve:  usable -amount           (escrow, ownership unchanged)
//	release:  usable +amount           (undo a reservation)
//	settle:   size   -amount           (consume previously reserved units)
//	credit:   size and usable +amount  (newly owned, immediately usable)
//
// Reservation never touches size; settlement never touches usable on the
// debited leg because that portion already left usable at reserve time.
type ReservationEngine struct {
	balances repository.BalanceStore
	logger   *zap.Logger
}

func NewReservationEngine(balances repository.BalanceStore, logger *zap.Logger) *ReservationEngine {
	return &ReservationEngine{balances: balances, logger: logger}
}

// Reserve locks amount of the customer's asset against a pending order.
// Returns models.ErrInsufficientFunds when fewer than amount units are
// usable, a normal business outcome even right after validation passed,
// since a concurrent order may have won the balance in between.
func (e *ReservationEngine) Reserve(ctx context.Context, customerID int64, assetName string, amount decimal.Decimal) error {
	_, err := e.balances.Adjust(ctx, customerID, assetName, decimal.Zero, amount.Neg())
	return err
}

// Release returns a previously reserved amount to the usable balance. A
// failure here means the asset row vanished underneath a pending order,
// which is an internal fault, not a business condition.
func (e *ReservationEngine) Release(ctx context.Context, customerID int64, assetName string, amount decimal.Decimal) error {
	_, err := e.balances.Adjust(ctx, customerID, assetName, decimal.Zero, amount)
	return err
}

// Settle permanently consumes reserved units, reducing total ownership.
func (e *ReservationEngine) Settle(ctx context.Context, customerID int64, assetName string, amount decimal.Decimal) error {
	_, err := e.balances.Adjust(ctx, customerID, assetName, amount.Neg(), decimal.Zero)
	return err
}

// Credit grants newly owned, immediately usable units, creating the
// balance row with zero balances first if the customer never held the
// asset. Creation never implicitly grants funds.
func (e *ReservationEngine) Credit(ctx context.Context, customerID int64, assetName string, amount decimal.Decimal) error {
	if _, err := e.balances.CreateIfAbsent(ctx, customerID, assetName, decimal.Zero, decimal.Zero); err != nil {
		return err
	}
	_, err := e.balances.Adjust(ctx, customerID, assetName, amount, amount)
	return err
}

// CreateReservation escrows the order's debited leg: the cash cost for a
// BUY, the asset quantity for a SELL.
func (e *ReservationEngine) CreateReservation(ctx context.Context, order *models.Order) error {
	if order.Side == models.SideBuy {
		return e.Reserve(ctx, order.CustomerID, models.CashAssetName, order.TotalCost())
	}
	return e.Reserve(ctx, order.CustomerID, order.AssetName, order.Size)
}

// CancelReservation mirrors CreateReservation with a release.
func (e *ReservationEngine) CancelReservation(ctx context.Context, order *models.Order) error {
	if order.Side == models.SideBuy {
		return e.Release(ctx, order.CustomerID, models.CashAssetName, order.TotalCost())
	}
	return e.Release(ctx, order.CustomerID, order.AssetName, order.Size)
}

// SettleOrder applies the permanent transfer for a matched order: credit
// the received leg, then settle the reserved leg. A failure after the
// credit landed leaves the books half-applied and is logged for operator
// reconciliation; the caller must not treat it as a business error.
func (e *ReservationEngine) SettleOrder(ctx context.Context, order *models.Order) error {
	var creditAsset, settleAsset string
	var creditAmount, settleAmount decimal.Decimal
	if order.Side == models.SideBuy {
		creditAsset, creditAmount = order.AssetName, order.Size
		settleAsset, settleAmount = models.CashAssetName, order.TotalCost()
	} else {
		creditAsset, creditAmount = models.CashAssetName, order.TotalCost()
		settleAsset, settleAmount = order.AssetName, order.Size
	}

	if err := e.Credit(ctx, order.CustomerID, creditAsset, creditAmount); err != nil {
		return fmt.Errorf("settlement credit failed for order %d: %w", order.ID, err)
	}

	if err := e.Settle(ctx, order.CustomerID, settleAsset, settleAmount); err != nil {
		e.logger.Error("settlement debit failed after credit was applied, books need manual reconciliation",
			zap.Int64("order_id", order.ID),
			zap.Int64("customer_id", order.CustomerID),
			zap.String("credited_asset", creditAsset),
			zap.String("credited_amount", creditAmount.String()),
			zap.String("debited_asset", settleAsset),
			zap.String("debited_amount", settleAmount.String()),
			zap.Error(err),
		)
		return fmt.Errorf("settlement debit failed for order %d: %w", order.ID, err)
	}
	return nil
}
