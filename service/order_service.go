package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

// OrderService drives the order lifecycle: create reserves the debited
// leg and persists a PENDING order; cancel and match compare-and-set the
// status before touching balances so each terminal transition happens
// exactly once.
type OrderService struct {
	orders    repository.OrderStore
	customers repository.CustomerStore
	balances  repository.BalanceStore
	engine    *ReservationEngine
	logger    *zap.Logger
}

func NewOrderService(
	orders repository.OrderStore,
	customers repository.CustomerStore,
	balances repository.BalanceStore,
	engine *ReservationEngine,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		balances:  balances,
		engine:    engine,
		logger:    logger,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	order := &models.Order{
		CustomerID: req.CustomerID,
		AssetName:  req.AssetName,
		Side:       req.Side,
		Size:       *req.Size,
		Price:      *req.Price,
		Status:     models.StatusPending,
		CreateDate: time.Now(),
	}

	if err := s.validateOrder(ctx, order); err != nil {
		return nil, err
	}

	// The atomic reserve is the authoritative funds check; a rejection
	// here after validation passed just means a concurrent order won.
	if err := s.engine.CreateReservation(ctx, order); err != nil {
		return nil, err
	}

	if _, err := s.orders.Create(ctx, order); err != nil {
		// The reservation landed but the order did not: undo it so no
		// balance stays locked behind a phantom order.
		if relErr := s.engine.CancelReservation(ctx, order); relErr != nil {
			s.logger.Error("failed to roll back reservation for unpersisted order",
				zap.Int64("customer_id", order.CustomerID),
				zap.String("asset_name", order.AssetName),
				zap.Error(relErr))
		}
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("asset_name", order.AssetName),
		zap.String("side", string(order.Side)),
		zap.String("size", order.Size.String()),
		zap.String("price", order.Price.String()))
	return order, nil
}

// CancelOrder transitions PENDING -> CANCELED and releases the escrowed
// leg. Only the caller that wins the status compare-and-set releases.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.TransitionStatus(ctx, orderID, models.StatusPending, models.StatusCanceled); err != nil {
		return err
	}

	if err := s.engine.CancelReservation(ctx, order); err != nil {
		s.logger.Error("failed to release reservation of canceled order",
			zap.Int64("order_id", orderID),
			zap.Int64("customer_id", order.CustomerID),
			zap.String("asset_name", order.AssetName),
			zap.Error(err))
		return err
	}

	s.logger.Info("order canceled", zap.Int64("order_id", orderID))
	return nil
}

// MatchOrder transitions PENDING -> MATCHED and settles the trade. If
// settlement fails the status is put back to PENDING so the order stays
// visible for manual reconciliation.
func (s *OrderService) MatchOrder(ctx context.Context, orderID int64) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.TransitionStatus(ctx, orderID, models.StatusPending, models.StatusMatched); err != nil {
		return err
	}

	if err := s.engine.SettleOrder(ctx, order); err != nil {
		if revErr := s.orders.TransitionStatus(ctx, orderID, models.StatusMatched, models.StatusPending); revErr != nil {
			s.logger.Error("failed to restore order to PENDING after settlement failure",
				zap.Int64("order_id", orderID), zap.Error(revErr))
		}
		return err
	}

	s.logger.Info("order matched", zap.Int64("order_id", orderID))
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *OrderService) GetOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customerID)
}

// GetOrdersByDateRange lists a customer's orders created between the two
// dates, both inclusive; the time-of-day parts of the bounds are widened
// to cover the whole start and end days.
func (s *OrderService) GetOrdersByDateRange(ctx context.Context, customerID int64, startDate, endDate time.Time, status models.OrderStatus) ([]models.Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	from := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	to := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), endDate.Location())
	return s.orders.ListByCustomerAndDateRange(ctx, customerID, from, to, status)
}

func (s *OrderService) GetPendingOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListByStatus(ctx, models.StatusPending)
}
