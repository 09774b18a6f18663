package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type catalogRepository struct {
	db DB
}

func NewCatalogRepository(db DB) interfaces.CatalogLookup {
	return &catalogRepository{db: db}
}

// ResolveMenuItem matches by name ignoring case. A missing item is not an
// error here; callers decide how to report it.
func (r *catalogRepository) ResolveMenuItem(ctx context.Context, name string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.QueryRow(ctx, `
		SELECT id, name, category, description, price, available
		FROM menu_items
		WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&item.ID, &item.Name, &item.Category, &item.Description, &item.Price, &item.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve menu item: %w", err)
	}
	return &item, nil
}

func (r *catalogRepository) ResolveTopping(ctx context.Context, name string) (*domain.Topping, error) {
	var topping domain.Topping
	err := r.db.QueryRow(ctx, `
		SELECT id, name, price, available
		FROM toppings
		WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&topping.ID, &topping.Name, &topping.Price, &topping.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve topping: %w", err)
	}
	return &topping, nil
}

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Entity: "customer"}
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}
