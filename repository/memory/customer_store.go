package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

type CustomerStore struct {
	mu        sync.RWMutex
	customers map[int64]*models.Customer
}

var _ repository.CustomerStore = (*CustomerStore)(nil)

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: make(map[int64]*models.Customer)}
}

func (s *CustomerStore) Create(_ context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customer.CustomerID]; ok {
		return fmt.Errorf("customer %d: %w", customer.CustomerID, models.ErrDuplicateCustomer)
	}
	stored := *customer
	s.customers[customer.CustomerID] = &stored
	return nil
}

func (s *CustomerStore) GetByID(_ context.Context, customerID int64) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", customerID, models.ErrCustomerNotFound)
	}
	copied := *c
	return &copied, nil
}

func (s *CustomerStore) List(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var customers []models.Customer
	for _, c := range s.customers {
		customers = append(customers, *c)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})
	return customers, nil
}

func (s *CustomerStore) Update(_ context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customer.CustomerID]; !ok {
		return fmt.Errorf("customer %d: %w", customer.CustomerID, models.ErrCustomerNotFound)
	}
	stored := *customer
	s.customers[customer.CustomerID] = &stored
	return nil
}

func (s *CustomerStore) Delete(_ context.Context, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[customerID]; !ok {
		return fmt.Errorf("customer %d: %w", customerID, models.ErrCustomerNotFound)
	}
	delete(s.customers, customerID)
	return nil
}

func (s *CustomerStore) ExistsByNationalID(_ context.Context, nationalID string, exceptCustomerID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.NationalIdentityNumber == nationalID && c.CustomerID != exceptCustomerID {
			return true, nil
		}
	}
	return false, nil
}
