package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mustafasamisahin/brokage-module/db/postgres/providers"
	"github.com/mustafasamisahin/brokage-module/models"
)

type CustomerRepository struct {
	DBHelper *providers.DBHelper
}

var _ CustomerStore = (*CustomerRepository)(nil)

func NewCustomerRepository(db *providers.DBHelper) *CustomerRepository {
	return &CustomerRepository{DBHelper: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (customer_id, name, surname, national_identity_number, address)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DBHelper.PostgresClient.ExecContext(ctx, query,
		customer.CustomerID, customer.Name, customer.Surname,
		customer.NationalIdentityNumber, customer.Address)
	if err != nil {
		return fmt.Errorf("failed to create customer %d: %w", customer.CustomerID, err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID int64) (*models.Customer, error) {
	query := `
		SELECT customer_id, name, surname, national_identity_number, address
		FROM customers WHERE customer_id = $1`
	var c models.Customer
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, customerID).
		Scan(&c.CustomerID, &c.Name, &c.Surname, &c.NationalIdentityNumber, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, models.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	query := `
		SELECT customer_id, name, surname, national_identity_number, address
		FROM customers ORDER BY customer_id`
	rows, err := r.DBHelper.PostgresClient.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Surname, &c.NationalIdentityNumber, &c.Address); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, surname = $3, national_identity_number = $4, address = $5
		WHERE customer_id = $1`
	res, err := r.DBHelper.PostgresClient.ExecContext(ctx, query,
		customer.CustomerID, customer.Name, customer.Surname,
		customer.NationalIdentityNumber, customer.Address)
	if err != nil {
		return fmt.Errorf("failed to update customer %d: %w", customer.CustomerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("customer %d: %w", customer.CustomerID, models.ErrCustomerNotFound)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	res, err := r.DBHelper.PostgresClient.ExecContext(ctx,
		`DELETE FROM customers WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("customer %d: %w", customerID, models.ErrCustomerNotFound)
	}
	return nil
}

func (r *CustomerRepository) ExistsByNationalID(ctx context.Context, nationalID string, exceptCustomerID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM customers
			WHERE national_identity_number = $1 AND customer_id <> $2
		)`
	var exists bool
	err := r.DBHelper.PostgresClient.QueryRowContext(ctx, query, nationalID, exceptCustomerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check national identity number: %w", err)
	}
	return exists, nil
}
