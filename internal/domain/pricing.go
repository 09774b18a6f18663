package domain

import "github.com/shopspring/decimal"

// PriceLineItem computes (menuPrice + sum of topping prices) * quantity in
// exact decimal arithmetic. A quantity of zero or less is a documented
// defaulting policy, not an error: it prices as a single unit.
func PriceLineItem(menuPrice decimal.Decimal, toppingPrices []decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		quantity = 1
	}
	unit := menuPrice
	for _, p := range toppingPrices {
		unit = unit.Add(p)
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// NormalizeQuantity applies the same defaulting policy used by PriceLineItem
// to a caller-supplied optional quantity.
func NormalizeQuantity(quantity *int) int {
	if quantity == nil || *quantity <= 0 {
		return 1
	}
	return *quantity
}

func toppingPrices(toppings []Topping) []decimal.Decimal {
	prices := make([]decimal.Decimal, len(toppings))
	for i, t := range toppings {
		prices[i] = t.Price
	}
	return prices
}
