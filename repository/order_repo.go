package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mustafasamisahin/brokage-module/db/postgres/providers"
	"github.com/mustafasamisahin/brokage-module/models"
)

const orderColumns = "id, customer_id, asset_name, side, size, price, status, create_date"

type OrderRepository struct {
	DBHelper *providers.DBHelper
}

var _ OrderStore = (*OrderRepository)(nil)

func NewOrderRepository(db *providers.DBHelper) *OrderRepository {
	return &OrderRepository{DBHelper: db}
}

// Create inserts a new order into the DB.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (int64, error) {
	query := `
		INSERT INTO orders (customer_id, asset_name, side, size, price, status, create_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query,
		order.CustomerID, order.AssetName, order.Side,
		order.Size, order.Price, order.Status, order.CreateDate,
	).Scan(&order.ID)
	return order.ID, err
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o models.Order
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.CustomerID, &o.AssetName, &o.Side, &o.Size, &o.Price, &o.Status, &o.CreateDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY create_date`
	return r.queryOrders(ctx, query, customerID)
}

// ListByCustomerAndDateRange fetches orders with create_date inside the
// inclusive [from, to] window, optionally filtered by status.
func (r *OrderRepository) ListByCustomerAndDateRange(ctx context.Context, customerID int64, from, to time.Time, status models.OrderStatus) ([]models.Order, error) {
	if status == "" {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			WHERE customer_id = $1 AND create_date BETWEEN $2 AND $3
			ORDER BY create_date`
		return r.queryOrders(ctx, query, customerID, from, to)
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1 AND create_date BETWEEN $2 AND $3 AND status = $4
		ORDER BY create_date`
	return r.queryOrders(ctx, query, customerID, from, to, status)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = $1 ORDER BY create_date`
	return r.queryOrders(ctx, query, status)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.DBHelper.PostgresClient.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.AssetName, &o.Side, &o.Size, &o.Price, &o.Status, &o.CreateDate); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// TransitionStatus compare-and-sets status in a single UPDATE so that of
// two concurrent transitions on the same order exactly one wins.
func (r *OrderRepository) TransitionStatus(ctx context.Context, id int64, from, to models.OrderStatus) error {
	query := `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`
	res, err := r.DBHelper.PostgresClient.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to transition order %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to transition order %d: %w", id, err)
	}
	if affected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`
		if err := r.DBHelper.PostgresClient.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order %d: %w", id, err)
		}
		if !exists {
			return fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
		}
		return fmt.Errorf("order %d is not %s: %w", id, from, models.ErrInvalidOrderStatus)
	}
	return nil
}
