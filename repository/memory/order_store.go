package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

type OrderStore struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]*models.Order
}

var _ repository.OrderStore = (*OrderStore)(nil)

func NewOrderStore() *OrderStore {
	return &OrderStore{nextID: 1, orders: make(map[int64]*models.Order)}
}

func (s *OrderStore) Create(_ context.Context, order *models.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.nextID
	s.nextID++
	stored := *order
	s.orders[order.ID] = &stored
	return order.ID, nil
}

func (s *OrderStore) GetByID(_ context.Context, id int64) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
	}
	copied := *o
	return &copied, nil
}

func (s *OrderStore) ListByCustomer(_ context.Context, customerID int64) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool {
		return o.CustomerID == customerID
	}), nil
}

func (s *OrderStore) ListByCustomerAndDateRange(_ context.Context, customerID int64, from, to time.Time, status models.OrderStatus) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool {
		if o.CustomerID != customerID {
			return false
		}
		if o.CreateDate.Before(from) || o.CreateDate.After(to) {
			return false
		}
		return status == "" || o.Status == status
	}), nil
}

func (s *OrderStore) ListByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool {
		return o.Status == status
	}), nil
}

func (s *OrderStore) filter(match func(*models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orders []models.Order
	for _, o := range s.orders {
		if match(o) {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreateDate.Equal(orders[j].CreateDate) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreateDate.Before(orders[j].CreateDate)
	})
	return orders
}

// TransitionStatus compare-and-sets the status under the store lock so a
// double-cancel or double-match race has exactly one winner.
func (s *OrderStore) TransitionStatus(_ context.Context, id int64, from, to models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, models.ErrOrderNotFound)
	}
	if o.Status != from {
		return fmt.Errorf("order %d is not %s: %w", id, from, models.ErrInvalidOrderStatus)
	}
	o.Status = to
	return nil
}
