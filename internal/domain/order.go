package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer-channel order. It exclusively owns its line items and
// its payment; the stored total is recomputed after every item mutation and
// never derived lazily at read time.
type Order struct {
	ID          int
	CustomerID  int
	Status      Status
	TotalAmount decimal.Decimal
	Items       []LineItem
	Payment     *Payment
	Version     int
	CreatedAt   time.Time
}

// LineItem is one priced entry within a customer order: a menu item plus an
// ordered sequence of toppings and a quantity.
type LineItem struct {
	ID       int
	OrderID  int
	MenuItem MenuItem
	Toppings []Topping
	Quantity int
	Price    decimal.Decimal
}

// Payment settles exactly one order. Created only at reconciliation time
// and never re-validated afterwards; lifecycle rules prevent mutation of a
// paid order.
type Payment struct {
	ID      int
	OrderID int
	Amount  decimal.Decimal
	Method  string
	PaidAt  time.Time
}

// NewOrder creates an empty pending order for a customer.
func NewOrder(customerID int) *Order {
	return &Order{
		CustomerID:  customerID,
		Status:      StatusPending,
		TotalAmount: decimal.Zero,
		CreatedAt:   time.Now(),
	}
}

// NewLineItem prices and builds a line item from resolved catalog entries.
func NewLineItem(menuItem MenuItem, toppings []Topping, quantity *int) LineItem {
	qty := NormalizeQuantity(quantity)
	return LineItem{
		MenuItem: menuItem,
		Toppings: toppings,
		Quantity: qty,
		Price:    PriceLineItem(menuItem.Price, toppingPrices(toppings), qty),
	}
}

// Editable reports whether line items may still be added or changed.
func (o *Order) Editable() bool {
	return !o.Status.Terminal()
}

// AddItem appends a line item and recomputes the stored total.
func (o *Order) AddItem(item LineItem) error {
	if !o.Editable() {
		return InvalidStateError{Reason: "cannot add items to a completed order"}
	}
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.RecomputeTotal()
	return nil
}

// ItemByID finds an owned line item.
func (o *Order) ItemByID(itemID int) *LineItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// Reprice recalculates the item price from its current contents.
func (li *LineItem) Reprice() {
	li.Price = PriceLineItem(li.MenuItem.Price, toppingPrices(li.Toppings), li.Quantity)
}

// RecomputeTotal restores the invariant total == sum of line item prices.
func (o *Order) RecomputeTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	o.TotalAmount = total
}

// Empty orders are invalid and subject to cleanup before a customer places
// a new one.
func (o *Order) Empty() bool {
	return len(o.Items) == 0
}

// Settle reconciles a presented amount against the stored total and, on an
// exact match, records the payment and completes the order.
func (o *Order) Settle(amount *decimal.Decimal, method string, at time.Time) error {
	if o.Status == StatusCompleted {
		return InvalidStateError{Reason: "order already paid"}
	}
	if amount == nil {
		return ValidationError{Field: "amount_paid", Message: "payment amount is required"}
	}
	if !amount.Equal(o.TotalAmount) {
		return ValidationError{Field: "amount_paid", Message: "payment amount does not match order total"}
	}
	if !CanTransitionCustomer(o.Status, StatusCompleted) {
		return InvalidStateError{Reason: "order cannot be completed from status " + string(o.Status)}
	}
	o.Payment = &Payment{
		OrderID: o.ID,
		Amount:  *amount,
		Method:  method,
		PaidAt:  at,
	}
	o.Status = StatusCompleted
	return nil
}
