package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type restaurantOrderRepository struct {
	db DB
}

func NewRestaurantOrderRepository(db DB) interfaces.RestaurantOrderRepository {
	return &restaurantOrderRepository{db: db}
}

func (r *restaurantOrderRepository) Create(ctx context.Context, order *domain.RestaurantOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO restaurant_orders (menu_item_id, quantity, price, status, version, created_at)
		VALUES ($1, $2, $3, $4, 1, $5)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.MenuItem.ID, order.Quantity, order.Price, order.Status, order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant order: %w", err)
	}
	order.Version = 1

	if err := replaceOrderToppings(ctx, tx, order.ID, order.Toppings); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *restaurantOrderRepository) FindByID(ctx context.Context, id int) (*domain.RestaurantOrder, error) {
	query := selectRestaurantOrders + ` WHERE o.id = $1`

	var order domain.RestaurantOrder
	err := r.db.QueryRow(ctx, query, id).Scan(scanRestaurantOrder(&order)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Entity: "order"}
		}
		return nil, fmt.Errorf("failed to find restaurant order: %w", err)
	}

	if err := r.loadToppings(ctx, &order); err != nil {
		return nil, err
	}
	if err := r.loadPayment(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *restaurantOrderRepository) FindAll(ctx context.Context) ([]*domain.RestaurantOrder, error) {
	return r.findMany(ctx, ` ORDER BY o.created_at`)
}

func (r *restaurantOrderRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.RestaurantOrder, error) {
	return r.findMany(ctx, ` WHERE o.status = $1 ORDER BY o.created_at`, status)
}

func (r *restaurantOrderRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.RestaurantOrder, error) {
	return r.findMany(ctx, ` WHERE o.created_at >= $1 AND o.created_at < $2 ORDER BY o.created_at`, from, to)
}

func (r *restaurantOrderRepository) FindPaymentByID(ctx context.Context, paymentID int) (*domain.RestaurantPayment, error) {
	var p domain.RestaurantPayment
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, amount, method, paid_at FROM restaurant_payments WHERE id = $1
	`, paymentID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Entity: "payment"}
		}
		return nil, fmt.Errorf("failed to find restaurant payment: %w", err)
	}
	return &p, nil
}

// Update persists contents and status under the optimistic version check.
func (r *restaurantOrderRepository) Update(ctx context.Context, order *domain.RestaurantOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := bumpVersion(ctx, tx, `restaurant_orders`, order.ID, order.Version,
		`menu_item_id = $3, quantity = $4, price = $5, status = $6`,
		order.MenuItem.ID, order.Quantity, order.Price, order.Status); err != nil {
		return err
	}

	if err := replaceOrderToppings(ctx, tx, order.ID, order.Toppings); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	order.Version++
	return nil
}

func (r *restaurantOrderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM restaurant_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Entity: "order"}
	}
	return nil
}

func (r *restaurantOrderRepository) SavePayment(ctx context.Context, order *domain.RestaurantOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := bumpVersion(ctx, tx, `restaurant_orders`, order.ID, order.Version,
		`status = $3`, order.Status); err != nil {
		return err
	}

	p := order.Payment
	err = tx.QueryRow(ctx, `
		INSERT INTO restaurant_payments (order_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, order.ID, p.Amount, p.Method, p.PaidAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert restaurant payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	order.Version++
	return nil
}

const selectRestaurantOrders = `
	SELECT o.id, o.quantity, o.price, o.status, o.version, o.created_at,
	       m.id, m.name, m.category, m.description, m.price, m.available
	FROM restaurant_orders o
	JOIN menu_items m ON m.id = o.menu_item_id
`

func scanRestaurantOrder(order *domain.RestaurantOrder) []any {
	return []any{
		&order.ID, &order.Quantity, &order.Price, &order.Status, &order.Version, &order.CreatedAt,
		&order.MenuItem.ID, &order.MenuItem.Name, &order.MenuItem.Category,
		&order.MenuItem.Description, &order.MenuItem.Price, &order.MenuItem.Available,
	}
}

func (r *restaurantOrderRepository) findMany(ctx context.Context, where string, args ...any) ([]*domain.RestaurantOrder, error) {
	rows, err := r.db.Query(ctx, selectRestaurantOrders+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query restaurant orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.RestaurantOrder
	for rows.Next() {
		var order domain.RestaurantOrder
		if err := rows.Scan(scanRestaurantOrder(&order)...); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant order: %w", err)
		}
		orders = append(orders, &order)
	}
	rows.Close()

	for _, order := range orders {
		if err := r.loadToppings(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *restaurantOrderRepository) loadToppings(ctx context.Context, order *domain.RestaurantOrder) error {
	toppings, err := loadToppings(ctx, r.db, `
		SELECT t.id, t.name, t.price, t.available
		FROM restaurant_order_toppings rot
		JOIN toppings t ON t.id = rot.topping_id
		WHERE rot.order_id = $1
		ORDER BY rot.position
	`, order.ID)
	if err != nil {
		return err
	}
	order.Toppings = toppings
	return nil
}

func (r *restaurantOrderRepository) loadPayment(ctx context.Context, order *domain.RestaurantOrder) error {
	var p domain.RestaurantPayment
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, amount, method, paid_at FROM restaurant_payments WHERE order_id = $1
	`, order.ID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load restaurant payment: %w", err)
	}
	order.Payment = &p
	return nil
}

func replaceOrderToppings(ctx context.Context, tx Tx, orderID int, toppings []domain.Topping) error {
	if _, err := tx.Exec(ctx, `DELETE FROM restaurant_order_toppings WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to clear order toppings: %w", err)
	}
	for pos, t := range toppings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO restaurant_order_toppings (order_id, topping_id, position)
			VALUES ($1, $2, $3)
		`, orderID, t.ID, pos); err != nil {
			return fmt.Errorf("failed to insert order topping: %w", err)
		}
	}
	return nil
}
