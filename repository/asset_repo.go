package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mustafasamisahin/brokage-module/db/postgres/providers"
	"github.com/mustafasamisahin/brokage-module/models"
)

// AssetRepository is the Postgres BalanceStore. Atomicity of Adjust comes
// from a single guarded UPDATE: the database serializes writers on the
// row while disjoint (customer_id, asset_name) rows proceed independently.
type AssetRepository struct {
	DBHelper *providers.DBHelper
}

var _ BalanceStore = (*AssetRepository)(nil)

func NewAssetRepository(db *providers.DBHelper) *AssetRepository {
	return &AssetRepository{DBHelper: db}
}

func (r *AssetRepository) Get(ctx context.Context, customerID int64, assetName string) (*models.Asset, error) {
	query := `
		SELECT customer_id, asset_name, size, usable_size
		FROM assets
		WHERE customer_id = $1 AND asset_name = $2`
	var a models.Asset
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, customerID, assetName).
		Scan(&a.CustomerID, &a.AssetName, &a.Size, &a.UsableSize)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s for customer %d: %w", assetName, customerID, models.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to get asset %s for customer %d: %w", assetName, customerID, err)
	}
	return &a, nil
}

func (r *AssetRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Asset, error) {
	query := `
		SELECT customer_id, asset_name, size, usable_size
		FROM assets
		WHERE customer_id = $1
		ORDER BY asset_name`
	return r.queryAssets(ctx, query, customerID)
}

func (r *AssetRepository) SearchByName(ctx context.Context, customerID int64, assetName string) ([]models.Asset, error) {
	query := `
		SELECT customer_id, asset_name, size, usable_size
		FROM assets
		WHERE customer_id = $1 AND asset_name ILIKE '%' || $2 || '%'
		ORDER BY asset_name`
	return r.queryAssets(ctx, query, customerID, assetName)
}

func (r *AssetRepository) queryAssets(ctx context.Context, query string, args ...any) ([]models.Asset, error) {
	rows, err := r.DBHelper.PostgresClient.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.CustomerID, &a.AssetName, &a.Size, &a.UsableSize); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) CreateIfAbsent(ctx context.Context, customerID int64, assetName string, size, usableSize decimal.Decimal) (*models.Asset, error) {
	query := `
		INSERT INTO assets (customer_id, asset_name, size, usable_size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id, asset_name) DO NOTHING
		RETURNING customer_id, asset_name, size, usable_size`
	var a models.Asset
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, customerID, assetName, size, usableSize).
		Scan(&a.CustomerID, &a.AssetName, &a.Size, &a.UsableSize)
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create asset %s for customer %d: %w", assetName, customerID, err)
	}
	// Conflict: the row already existed, return it untouched.
	return r.Get(ctx, customerID, assetName)
}

// Adjust applies both deltas in one guarded UPDATE. Zero rows means the
// row is either missing or the post-adjustment invariant would break; a
// follow-up existence check disambiguates the two.
func (r *AssetRepository) Adjust(ctx context.Context, customerID int64, assetName string, deltaSize, deltaUsable decimal.Decimal) (*models.Asset, error) {
	query := `
		UPDATE assets
		SET size = size + $3, usable_size = usable_size + $4
		WHERE customer_id = $1 AND asset_name = $2
		  AND size + $3 >= 0
		  AND usable_size + $4 >= 0
		  AND usable_size + $4 <= size + $3
		RETURNING customer_id, asset_name, size, usable_size`
	var a models.Asset
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, customerID, assetName, deltaSize, deltaUsable).
		Scan(&a.CustomerID, &a.AssetName, &a.Size, &a.UsableSize)
	if err == nil {
		return &a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to adjust asset %s for customer %d: %w", assetName, customerID, err)
	}

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM assets WHERE customer_id = $1 AND asset_name = $2)`
	if err := r.DBHelper.PostgresClient.QueryRowContext(ctx, checkQuery, customerID, assetName).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check asset %s for customer %d: %w", assetName, customerID, err)
	}
	if !exists {
		return nil, fmt.Errorf("asset %s for customer %d: %w", assetName, customerID, models.ErrAssetNotFound)
	}
	return nil, fmt.Errorf("adjust of asset %s for customer %d rejected: %w", assetName, customerID, models.ErrInsufficientFunds)
}
