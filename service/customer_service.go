package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mustafasamisahin/brokage-module/models"
	"github.com/mustafasamisahin/brokage-module/repository"
)

type CustomerService struct {
	customers repository.CustomerStore
	logger    *zap.Logger
}

func NewCustomerService(customers repository.CustomerStore, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if _, err := s.customers.GetByID(ctx, req.CustomerID); err == nil {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, models.ErrDuplicateCustomer)
	}
	exists, err := s.customers.ExistsByNationalID(ctx, req.NationalIdentityNumber, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("national identity number already in use: %w", models.ErrDuplicateCustomer)
	}

	customer := &models.Customer{
		CustomerID:             req.CustomerID,
		Name:                   req.Name,
		Surname:                req.Surname,
		NationalIdentityNumber: req.NationalIdentityNumber,
		Address:                req.Address,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.Int64("customer_id", customer.CustomerID))
	return customer, nil
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, customerID int64) (*models.Customer, error) {
	return s.customers.GetByID(ctx, customerID)
}

func (s *CustomerService) GetAllCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customers.List(ctx)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID int64, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.NationalIdentityNumber != customer.NationalIdentityNumber {
		exists, err := s.customers.ExistsByNationalID(ctx, req.NationalIdentityNumber, customerID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("national identity number already in use: %w", models.ErrDuplicateCustomer)
		}
	}

	customer.Name = req.Name
	customer.Surname = req.Surname
	customer.NationalIdentityNumber = req.NationalIdentityNumber
	customer.Address = req.Address
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer updated", zap.Int64("customer_id", customerID))
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	if err := s.customers.Delete(ctx, customerID); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Int64("customer_id", customerID))
	return nil
}
