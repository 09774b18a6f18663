package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestaurantOrder is a walk-in order: one dish, its toppings and a quantity.
// Unlike the customer channel there is no line-item list; the price covers
// the whole order.
type RestaurantOrder struct {
	ID        int
	MenuItem  MenuItem
	Toppings  []Topping
	Quantity  int
	Price     decimal.Decimal
	Status    Status
	Payment   *RestaurantPayment
	Version   int
	CreatedAt time.Time
}

// RestaurantPayment settles exactly one in-restaurant order.
type RestaurantPayment struct {
	ID      int
	OrderID int
	Amount  decimal.Decimal
	Method  string
	PaidAt  time.Time
}

// NewRestaurantOrder prices and builds a pending walk-in order. The walk-in
// channel requires an explicit positive quantity.
func NewRestaurantOrder(menuItem MenuItem, toppings []Topping, quantity *int) (*RestaurantOrder, error) {
	if quantity == nil || *quantity <= 0 {
		return nil, ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	return &RestaurantOrder{
		MenuItem:  menuItem,
		Toppings:  toppings,
		Quantity:  *quantity,
		Price:     PriceLineItem(menuItem.Price, toppingPrices(toppings), *quantity),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// UpdateStatus applies the generic forward-only transition rule.
func (o *RestaurantOrder) UpdateStatus(to Status) error {
	if !to.Valid() {
		return ValidationError{Field: "status", Message: "unknown status " + string(to)}
	}
	if o.Status.Terminal() {
		return InvalidStateError{Reason: "cannot update a completed or cancelled order"}
	}
	if !CanTransitionRestaurant(o.Status, to) {
		return InvalidStateError{Reason: "invalid status transition from " + string(o.Status) + " to " + string(to)}
	}
	o.Status = to
	return nil
}

// Advance performs a named single-step transition and requires the order to
// be in the exact preceding stage.
func (o *RestaurantOrder) Advance(expected, next Status) error {
	if o.Status != expected {
		return InvalidStateError{Reason: "invalid status transition from " + string(o.Status) + " to " + string(next)}
	}
	o.Status = next
	return nil
}

// UpdateContents replaces the dish, toppings and quantity and recomputes the
// price. Permitted only while the order is still pending.
func (o *RestaurantOrder) UpdateContents(menuItem MenuItem, toppings []Topping, quantity *int) error {
	if o.Status != StatusPending {
		return InvalidStateError{Reason: "only pending orders can be updated"}
	}
	if quantity == nil || *quantity <= 0 {
		return ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}
	o.MenuItem = menuItem
	o.Toppings = toppings
	o.Quantity = *quantity
	o.Price = PriceLineItem(menuItem.Price, toppingPrices(toppings), *quantity)
	return nil
}

// Settle requires the order to be served, then reconciles the presented
// amount against the stored price and completes the order.
func (o *RestaurantOrder) Settle(amount *decimal.Decimal, method string, at time.Time) error {
	if o.Status != StatusServed {
		return InvalidStateError{Reason: "order must be served before payment"}
	}
	if amount == nil {
		return ValidationError{Field: "amount_paid", Message: "payment amount is required"}
	}
	if !amount.Equal(o.Price) {
		return ValidationError{Field: "amount_paid", Message: "payment amount does not match order total"}
	}
	o.Payment = &RestaurantPayment{
		OrderID: o.ID,
		Amount:  *amount,
		Method:  method,
		PaidAt:  at,
	}
	o.Status = StatusCompleted
	return nil
}
