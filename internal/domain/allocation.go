package domain

import "github.com/shopspring/decimal"

// AllocationTable is an immutable revenue-split configuration expressed as
// fractions of the paid total. It is injected into the reports service so
// tests can override the split.
type AllocationTable struct {
	Inventory decimal.Decimal
	Profit    decimal.Decimal
	Workers   decimal.Decimal
	Other     decimal.Decimal
}

// DefaultAllocationTable is the restaurant's standard split:
// inventory 60%, profit 20%, workers 10%, other 10%.
func DefaultAllocationTable() AllocationTable {
	return AllocationTable{
		Inventory: decimal.NewFromFloat(0.60),
		Profit:    decimal.NewFromFloat(0.20),
		Workers:   decimal.NewFromFloat(0.10),
		Other:     decimal.NewFromFloat(0.10),
	}
}

// Valid reports whether the fractions sum to exactly 1.
func (t AllocationTable) Valid() bool {
	sum := t.Inventory.Add(t.Profit).Add(t.Workers).Add(t.Other)
	return sum.Equal(decimal.NewFromInt(1))
}

// RevenueAllocation is the split of a single paid total.
type RevenueAllocation struct {
	TotalPaid decimal.Decimal
	Inventory decimal.Decimal
	Profit    decimal.Decimal
	Workers   decimal.Decimal
	Other     decimal.Decimal
}

// Allocate splits a paid total across the table. The first three shares are
// rounded to cents; rounding drift is folded into the residual "other"
// share so the four shares always sum exactly to the input.
func (t AllocationTable) Allocate(totalPaid decimal.Decimal) RevenueAllocation {
	inventory := totalPaid.Mul(t.Inventory).Round(2)
	profit := totalPaid.Mul(t.Profit).Round(2)
	workers := totalPaid.Mul(t.Workers).Round(2)
	other := totalPaid.Sub(inventory).Sub(profit).Sub(workers)
	return RevenueAllocation{
		TotalPaid: totalPaid,
		Inventory: inventory,
		Profit:    profit,
		Workers:   workers,
		Other:     other,
	}
}
