package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func burger() MenuItem {
	return MenuItem{ID: 1, Name: "Burger", Price: decimal.RequireFromString("8.00"), Available: true}
}

func cheese() Topping {
	return Topping{ID: 1, Name: "Cheese", Price: decimal.RequireFromString("1.00"), Available: true}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOrderAddItemRecomputesTotal(t *testing.T) {
	order := NewOrder(1)
	if !order.TotalAmount.Equal(decimal.Zero) {
		t.Fatalf("new order total = %s, want 0", order.TotalAmount)
	}

	two := 2
	item := NewLineItem(burger(), []Topping{cheese()}, &two)
	if !item.Price.Equal(dec("18.00")) {
		t.Fatalf("item price = %s, want 18.00", item.Price)
	}

	if err := order.AddItem(item); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if !order.TotalAmount.Equal(dec("18.00")) {
		t.Errorf("total after first item = %s, want 18.00", order.TotalAmount)
	}

	if err := order.AddItem(NewLineItem(burger(), nil, nil)); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if !order.TotalAmount.Equal(dec("26.00")) {
		t.Errorf("total after second item = %s, want 26.00", order.TotalAmount)
	}
}

func TestOrderAddItemRejectsTerminal(t *testing.T) {
	order := NewOrder(1)
	order.Status = StatusCompleted

	err := order.AddItem(NewLineItem(burger(), nil, nil))
	if !IsInvalidState(err) {
		t.Errorf("AddItem() on completed order error = %v, want invalid state", err)
	}
}

func TestOrderRepriceKeepsTotalConsistent(t *testing.T) {
	order := NewOrder(1)
	order.AddItem(NewLineItem(burger(), []Topping{cheese()}, nil))

	item := &order.Items[0]
	item.Quantity = 3
	item.Reprice()
	order.RecomputeTotal()

	if !order.TotalAmount.Equal(dec("27.00")) {
		t.Errorf("total after reprice = %s, want 27.00", order.TotalAmount)
	}
}

func TestOrderSettle(t *testing.T) {
	exact := dec("18.00")
	short := dec("17.99")

	tests := []struct {
		name      string
		status    Status
		amount    *decimal.Decimal
		wantErr   func(error) bool
		wantPaid  bool
	}{
		{"exact amount completes", StatusPending, &exact, nil, true},
		{"missing amount rejected", StatusPending, nil, IsValidation, false},
		{"mismatched amount rejected", StatusPending, &short, IsValidation, false},
		{"already paid rejected", StatusCompleted, &exact, IsInvalidState, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := NewOrder(1)
			two := 2
			order.AddItem(NewLineItem(burger(), []Topping{cheese()}, &two))
			order.Status = tt.status

			err := order.Settle(tt.amount, "card", time.Now())
			if tt.wantErr != nil {
				if err == nil || !tt.wantErr(err) {
					t.Fatalf("Settle() error = %v, want matching error", err)
				}
				if order.Payment != nil && !tt.wantPaid {
					t.Error("failed settlement must not record a payment")
				}
				return
			}

			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if order.Status != StatusCompleted {
				t.Errorf("status after settle = %s, want completed", order.Status)
			}
			if order.Payment == nil || !order.Payment.Amount.Equal(exact) {
				t.Error("settlement must record the paid amount")
			}
		})
	}
}

func TestOrderEmpty(t *testing.T) {
	order := NewOrder(1)
	if !order.Empty() {
		t.Error("new order must be empty")
	}
	order.AddItem(NewLineItem(burger(), nil, nil))
	if order.Empty() {
		t.Error("order with items must not be empty")
	}
}
