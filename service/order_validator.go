package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mustafasamisahin/brokage-module/models"
)

// validateOrder runs the creation preflight checks in order; the first
// failure wins. The balance checks here are advisory; the authoritative
// sufficiency check is the atomic reserve that follows, which can still
// reject if a concurrent order takes the balance first.
func (s *OrderService) validateOrder(ctx context.Context, order *models.Order) error {
	if !order.Side.Valid() {
		return fmt.Errorf("unknown order side %q: %w", order.Side, models.ErrInvalidOrder)
	}
	if !order.Size.IsPositive() || !order.Price.IsPositive() {
		return fmt.Errorf("size and price must be positive: %w", models.ErrInvalidOrder)
	}

	if _, err := s.customers.GetByID(ctx, order.CustomerID); err != nil {
		return err
	}

	if order.Side == models.SideSell && order.AssetName == models.CashAssetName {
		return fmt.Errorf("%s cannot be sold: %w", models.CashAssetName, models.ErrInvalidOrder)
	}

	if order.Side == models.SideBuy {
		cash, err := s.balances.Get(ctx, order.CustomerID, models.CashAssetName)
		if err != nil {
			if errors.Is(err, models.ErrAssetNotFound) {
				return fmt.Errorf("no %s balance for customer %d: %w",
					models.CashAssetName, order.CustomerID, models.ErrInsufficientFunds)
			}
			return err
		}
		if cash.UsableSize.LessThan(order.TotalCost()) {
			return fmt.Errorf("need %s %s, have %s usable: %w",
				order.TotalCost(), models.CashAssetName, cash.UsableSize, models.ErrInsufficientFunds)
		}
		return nil
	}

	// SELL: the named asset must already be held; selling an unowned
	// asset is always an error, never an implicit creation.
	asset, err := s.balances.Get(ctx, order.CustomerID, order.AssetName)
	if err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			return fmt.Errorf("customer %d holds no %s: %w",
				order.CustomerID, order.AssetName, models.ErrInsufficientFunds)
		}
		return err
	}
	if asset.UsableSize.LessThan(order.Size) {
		return fmt.Errorf("need %s %s, have %s usable: %w",
			order.Size, order.AssetName, asset.UsableSize, models.ErrInsufficientFunds)
	}
	return nil
}
