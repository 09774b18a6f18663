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

// querier is satisfied by both DB and Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
}

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (customer_id, status, total_amount, version, created_at)
		VALUES ($1, $2, $3, 1, $4)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.CustomerID, order.Status, order.TotalAmount, order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	order.Version = 1

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := insertItem(ctx, tx, &order.Items[i]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *orderRepository) FindByItemID(ctx context.Context, itemID int) (*domain.Order, error) {
	var orderID int
	err := r.db.QueryRow(ctx, `SELECT order_id FROM order_items WHERE id = $1`, itemID).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Entity: "order item"}
		}
		return nil, fmt.Errorf("failed to find order item: %w", err)
	}
	return r.FindByID(ctx, orderID)
}

func (r *orderRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, status, total_amount, version, created_at
		FROM orders ` + where

	var order domain.Order
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&order.ID, &order.CustomerID, &order.Status, &order.TotalAmount,
		&order.Version, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundError{Entity: "order"}
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	if err := r.loadItems(ctx, r.db, &order); err != nil {
		return nil, err
	}
	if err := r.loadPayment(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error) {
	return r.findMany(ctx, `WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *orderRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	return r.findMany(ctx, `WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`, from, to)
}

func (r *orderRepository) findMany(ctx context.Context, where string, args ...any) ([]*domain.Order, error) {
	query := `
		SELECT id, customer_id, status, total_amount, version, created_at
		FROM orders ` + where

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID, &order.CustomerID, &order.Status, &order.TotalAmount,
			&order.Version, &order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	rows.Close()

	for _, order := range orders {
		if err := r.loadItems(ctx, r.db, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Update persists the order's items, total and status in one transaction.
// The version check makes concurrent mutations of the same aggregate fail
// instead of silently overwriting each other.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := bumpVersion(ctx, tx, `orders`, order.ID, order.Version, `status = $3, total_amount = $4`,
		order.Status, order.TotalAmount); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if item.ID == 0 {
			if err := insertItem(ctx, tx, item); err != nil {
				return err
			}
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE order_items SET menu_item_id = $1, quantity = $2, price = $3 WHERE id = $4`,
			item.MenuItem.ID, item.Quantity, item.Price, item.ID,
		); err != nil {
			return fmt.Errorf("failed to update order item: %w", err)
		}
		if err := replaceItemToppings(ctx, tx, item.ID, item.Toppings); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	order.Version++
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError{Entity: "order"}
	}
	return nil
}

func (r *orderRepository) DeleteEmpty(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM orders o
		WHERE NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete empty orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SavePayment inserts the payment row and completes the order in one
// transaction, under the same version check as Update.
func (r *orderRepository) SavePayment(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := bumpVersion(ctx, tx, `orders`, order.ID, order.Version, `status = $3`, order.Status); err != nil {
		return err
	}

	p := order.Payment
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (order_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, order.ID, p.Amount, p.Method, p.PaidAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	order.Version++
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, q querier, order *domain.Order) error {
	query := `
		SELECT oi.id, oi.quantity, oi.price,
		       m.id, m.name, m.category, m.description, m.price, m.available
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`
	rows, err := q.Query(ctx, query, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	order.Items = nil
	for rows.Next() {
		item := domain.LineItem{OrderID: order.ID}
		if err := rows.Scan(
			&item.ID, &item.Quantity, &item.Price,
			&item.MenuItem.ID, &item.MenuItem.Name, &item.MenuItem.Category,
			&item.MenuItem.Description, &item.MenuItem.Price, &item.MenuItem.Available,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	rows.Close()

	for i := range order.Items {
		toppings, err := loadToppings(ctx, q, `
			SELECT t.id, t.name, t.price, t.available
			FROM order_item_toppings oit
			JOIN toppings t ON t.id = oit.topping_id
			WHERE oit.order_item_id = $1
			ORDER BY oit.position
		`, order.Items[i].ID)
		if err != nil {
			return err
		}
		order.Items[i].Toppings = toppings
	}
	return nil
}

func (r *orderRepository) loadPayment(ctx context.Context, order *domain.Order) error {
	var p domain.Payment
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, amount, method, paid_at FROM payments WHERE order_id = $1
	`, order.ID).Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}
	order.Payment = &p
	return nil
}

func insertItem(ctx context.Context, tx Tx, item *domain.LineItem) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, item.OrderID, item.MenuItem.ID, item.Quantity, item.Price).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return replaceItemToppings(ctx, tx, item.ID, item.Toppings)
}

func replaceItemToppings(ctx context.Context, tx Tx, itemID int, toppings []domain.Topping) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_item_toppings WHERE order_item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to clear item toppings: %w", err)
	}
	for pos, t := range toppings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_item_toppings (order_item_id, topping_id, position)
			VALUES ($1, $2, $3)
		`, itemID, t.ID, pos); err != nil {
			return fmt.Errorf("failed to insert item topping: %w", err)
		}
	}
	return nil
}

// bumpVersion applies a version-guarded update to an order row. Zero rows
// affected means another writer got there first.
func bumpVersion(ctx context.Context, tx Tx, table string, id, version int, set string, args ...any) error {
	query := fmt.Sprintf(
		`UPDATE %s SET version = version + 1, %s WHERE id = $1 AND version = $2`,
		table, set,
	)
	queryArgs := append([]any{id, version}, args...)
	tag, err := tx.Exec(ctx, query, queryArgs...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

func loadToppings(ctx context.Context, q querier, query string, id int) ([]domain.Topping, error) {
	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load toppings: %w", err)
	}
	defer rows.Close()

	var toppings []domain.Topping
	for rows.Next() {
		var t domain.Topping
		if err := rows.Scan(&t.ID, &t.Name, &t.Price, &t.Available); err != nil {
			return nil, fmt.Errorf("failed to scan topping: %w", err)
		}
		toppings = append(toppings, t)
	}
	return toppings, nil
}
