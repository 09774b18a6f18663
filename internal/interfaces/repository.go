package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

// OrderRepository persists customer-channel orders. Every mutating method
// runs in a single transaction scoped to the order aggregate; Update and
// SavePayment enforce the optimistic version check and return
// domain.ErrConcurrentModification on conflict.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindByItemID(ctx context.Context, itemID int) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int) error
	DeleteEmpty(ctx context.Context) (int64, error)
	SavePayment(ctx context.Context, order *domain.Order) error
}

// RestaurantOrderRepository persists walk-in orders.
type RestaurantOrderRepository interface {
	Create(ctx context.Context, order *domain.RestaurantOrder) error
	FindByID(ctx context.Context, id int) (*domain.RestaurantOrder, error)
	FindAll(ctx context.Context) ([]*domain.RestaurantOrder, error)
	FindByStatus(ctx context.Context, status domain.Status) ([]*domain.RestaurantOrder, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.RestaurantOrder, error)
	FindPaymentByID(ctx context.Context, paymentID int) (*domain.RestaurantPayment, error)
	Update(ctx context.Context, order *domain.RestaurantOrder) error
	Delete(ctx context.Context, id int) error
	SavePayment(ctx context.Context, order *domain.RestaurantOrder) error
}

// CustomerRepository resolves owning customer references.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
}

// CatalogLookup resolves menu item and topping names, case-insensitively.
// Absence is reported as a nil result, not an error; availability is left
// for the caller to enforce.
type CatalogLookup interface {
	ResolveMenuItem(ctx context.Context, name string) (*domain.MenuItem, error)
	ResolveTopping(ctx context.Context, name string) (*domain.Topping, error)
}
