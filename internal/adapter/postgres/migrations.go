package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the schema if it does not exist yet. Money columns are
// NUMERIC(10,2); the version columns back the optimistic concurrency check
// on order mutations.
func Migrate(ctx context.Context, db DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			category VARCHAR(50),
			description TEXT,
			price NUMERIC(10,2) NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS toppings (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			price NUMERIC(10,2) NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			status VARCHAR(20) NOT NULL,
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id INTEGER NOT NULL REFERENCES menu_items(id),
			quantity INTEGER NOT NULL,
			price NUMERIC(10,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_item_toppings (
			order_item_id INTEGER NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
			topping_id INTEGER NOT NULL REFERENCES toppings(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (order_item_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL UNIQUE REFERENCES orders(id) ON DELETE CASCADE,
			amount NUMERIC(10,2) NOT NULL,
			method VARCHAR(50) NOT NULL,
			paid_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_orders (
			id SERIAL PRIMARY KEY,
			menu_item_id INTEGER NOT NULL REFERENCES menu_items(id),
			quantity INTEGER NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_order_toppings (
			order_id INTEGER NOT NULL REFERENCES restaurant_orders(id) ON DELETE CASCADE,
			topping_id INTEGER NOT NULL REFERENCES toppings(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (order_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_payments (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL UNIQUE REFERENCES restaurant_orders(id) ON DELETE CASCADE,
			amount NUMERIC(10,2) NOT NULL,
			method VARCHAR(50) NOT NULL,
			paid_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurant_orders_status ON restaurant_orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurant_orders_created ON restaurant_orders(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
