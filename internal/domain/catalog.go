package domain

import "github.com/shopspring/decimal"

// MenuItem is a catalog entry resolved by name. The core never owns menu
// items; orders hold value copies taken at resolution time.
type MenuItem struct {
	ID          int
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	Available   bool
}

// Topping is a catalog add-on resolved by name.
type Topping struct {
	ID        int
	Name      string
	Price     decimal.Decimal
	Available bool
}

// Customer is the owning reference for customer-channel orders.
type Customer struct {
	ID    int
	Name  string
	Email string
}
