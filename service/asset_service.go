package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

// AssetService is the read and operator surface over balances. All
// mutations go through the ReservationEngine so balance writes stay on a
// single path.
type AssetService struct {
	balances  repository.BalanceStore
	customers repository.CustomerStore
	engine    *ReservationEngine
	logger    *zap.Logger
}

func NewAssetService(balances repository.BalanceStore, customers repository.CustomerStore, engine *ReservationEngine, logger *zap.Logger) *AssetService {
	return &AssetService{balances: balances, customers: customers, engine: engine, logger: logger}
}

func (s *AssetService) GetAssetsByCustomer(ctx context.Context, customerID int64) ([]models.Asset, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.balances.ListByCustomer(ctx, customerID)
}

func (s *AssetService) SearchAssets(ctx context.Context, customerID int64, assetName string) ([]models.Asset, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.balances.SearchByName(ctx, customerID, assetName)
}

func (s *AssetService) GetAsset(ctx context.Context, customerID int64, assetName string) (*models.Asset, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.balances.Get(ctx, customerID, assetName)
}

// Deposit credits funds into a customer's balance, creating the asset
// row if needed. This is the only way balance enters the system.
func (s *AssetService) Deposit(ctx context.Context, customerID int64, assetName string, amount decimal.Decimal) (*models.Asset, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("deposit amount must be positive: %w", models.ErrInvalidOrder)
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	if err := s.engine.Credit(ctx, customerID, assetName, amount); err != nil {
		return nil, err
	}

	s.logger.Info("deposit credited",
		zap.Int64("customer_id", customerID),
		zap.String("asset_name", assetName),
		zap.String("amount", amount.String()))
	return s.balances.Get(ctx, customerID, assetName)
}
