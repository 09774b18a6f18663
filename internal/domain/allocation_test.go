package domain

import "testing"

func TestDefaultAllocationTable(t *testing.T) {
	table := DefaultAllocationTable()
	if !table.Valid() {
		t.Fatal("default table fractions must sum to 1")
	}

	allocation := table.Allocate(dec("100.00"))
	if !allocation.Inventory.Equal(dec("60.00")) {
		t.Errorf("inventory = %s, want 60.00", allocation.Inventory)
	}
	if !allocation.Profit.Equal(dec("20.00")) {
		t.Errorf("profit = %s, want 20.00", allocation.Profit)
	}
	if !allocation.Workers.Equal(dec("10.00")) {
		t.Errorf("workers = %s, want 10.00", allocation.Workers)
	}
	if !allocation.Other.Equal(dec("10.00")) {
		t.Errorf("other = %s, want 10.00", allocation.Other)
	}
}

func TestAllocateFoldsRoundingIntoOther(t *testing.T) {
	totals := []string{"10.01", "0.01", "33.33", "18.00", "99.99"}

	table := DefaultAllocationTable()
	for _, raw := range totals {
		total := dec(raw)
		allocation := table.Allocate(total)

		sum := allocation.Inventory.
			Add(allocation.Profit).
			Add(allocation.Workers).
			Add(allocation.Other)
		if !sum.Equal(total) {
			t.Errorf("shares of %s sum to %s, want exact total", raw, sum)
		}
	}
}
