package reports

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

// Service aggregates sales across both order channels and applies the
// revenue split. All operations are read-only and tolerate slightly stale
// snapshots; no locking is taken against concurrent order mutations.
type Service struct {
	orders     interfaces.OrderRepository
	restaurant interfaces.RestaurantOrderRepository
	allocation domain.AllocationTable
	logger     logger.Logger
}

func NewService(
	orders interfaces.OrderRepository,
	restaurant interfaces.RestaurantOrderRepository,
	allocation domain.AllocationTable,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:     orders,
		restaurant: restaurant,
		allocation: allocation,
		logger:     logger,
	}
}

// weekBounds returns the Monday 00:00 starting the ISO week containing date
// and the exclusive end one week later.
func weekBounds(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	return start, start.AddDate(0, 0, 7)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// OrdersByWeek returns both channels' orders whose date falls in the ISO
// week containing the given date.
func (s *Service) OrdersByWeek(ctx context.Context, date time.Time) (*interfaces.WeeklyOrders, error) {
	start, end := weekBounds(date)

	customerOrders, err := s.orders.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer orders: %w", err)
	}
	restaurantOrders, err := s.restaurant.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant orders: %w", err)
	}

	return &interfaces.WeeklyOrders{
		WeekStart:        start,
		WeekEnd:          end.AddDate(0, 0, -1),
		CustomerOrders:   customerOrders,
		RestaurantOrders: restaurantOrders,
	}, nil
}

// CompareWeeklySales produces exactly 7 per-day records for the ISO week
// containing the date, zero-filled for days with no orders. Orders are
// fetched once and grouped in a single pass keyed by date.
func (s *Service) CompareWeeklySales(ctx context.Context, date time.Time) ([]interfaces.DailySales, error) {
	start, end := weekBounds(date)
	return s.salesTrend(ctx, start, end)
}

// CompareMonthlySales produces one record per calendar day of the month
// (28-31 entries), zero-filled like the weekly trend.
func (s *Service) CompareMonthlySales(ctx context.Context, month, year int) ([]interfaces.DailySales, error) {
	if month < 1 || month > 12 {
		return nil, domain.ValidationError{Field: "month", Message: "month must be between 1 and 12"}
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return s.salesTrend(ctx, start, start.AddDate(0, 1, 0))
}

func (s *Service) salesTrend(ctx context.Context, start, end time.Time) ([]interfaces.DailySales, error) {
	customerOrders, err := s.orders.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer orders: %w", err)
	}
	restaurantOrders, err := s.restaurant.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant orders: %w", err)
	}

	customerByDay := make(map[string]decimal.Decimal)
	for _, o := range customerOrders {
		key := dayKey(o.CreatedAt)
		customerByDay[key] = customerByDay[key].Add(o.TotalAmount)
	}
	restaurantByDay := make(map[string]decimal.Decimal)
	for _, o := range restaurantOrders {
		key := dayKey(o.CreatedAt)
		restaurantByDay[key] = restaurantByDay[key].Add(o.Price)
	}

	s.logger.Debug("sales_trend_computed", "Sales trend computed", "", map[string]interface{}{
		"from":              dayKey(start),
		"to":                dayKey(end.AddDate(0, 0, -1)),
		"customer_orders":   len(customerOrders),
		"restaurant_orders": len(restaurantOrders),
	})

	var trend []interfaces.DailySales
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		customerTotal := customerByDay[dayKey(day)]
		restaurantTotal := restaurantByDay[dayKey(day)]
		trend = append(trend, interfaces.DailySales{
			Date:            day,
			CustomerSales:   customerTotal,
			RestaurantSales: restaurantTotal,
			TotalSales:      customerTotal.Add(restaurantTotal),
		})
	}
	return trend, nil
}

// MenuPerformance ranks dishes by completed walk-in sales, most sold first.
// Ordering among equal quantities is unspecified.
func (s *Service) MenuPerformance(ctx context.Context) ([]interfaces.MenuPerformance, error) {
	orders, err := s.restaurant.FindByStatus(ctx, domain.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed orders: %w", err)
	}

	byDish := make(map[string]*interfaces.MenuPerformance)
	for _, o := range orders {
		entry, ok := byDish[o.MenuItem.Name]
		if !ok {
			entry = &interfaces.MenuPerformance{FoodName: o.MenuItem.Name}
			byDish[o.MenuItem.Name] = entry
		}
		entry.QuantitySold += o.Quantity
		entry.Revenue = entry.Revenue.Add(o.Price)
	}

	ranking := make([]interfaces.MenuPerformance, 0, len(byDish))
	for _, entry := range byDish {
		ranking = append(ranking, *entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		return ranking[i].QuantitySold > ranking[j].QuantitySold
	})
	return ranking, nil
}

// DailyTotal sums walk-in revenue over [from, to).
func (s *Service) DailyTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	orders, err := s.restaurant.FindByDateRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load restaurant orders: %w", err)
	}
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Price)
	}
	return total, nil
}

// AllOrders lists every order of both channels as flat report rows.
func (s *Service) AllOrders(ctx context.Context) ([]interfaces.OrderReportRow, error) {
	customerOrders, err := s.orders.FindByDateRange(ctx, time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load customer orders: %w", err)
	}
	restaurantOrders, err := s.restaurant.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant orders: %w", err)
	}

	var rows []interfaces.OrderReportRow
	for _, o := range customerOrders {
		rows = append(rows, interfaces.OrderReportRow{
			OrderID:     o.ID,
			Channel:     "customer",
			Date:        o.CreatedAt,
			TotalAmount: o.TotalAmount,
			Items:       describeLineItems(o.Items),
			Status:      o.Status,
		})
	}
	for _, o := range restaurantOrders {
		rows = append(rows, interfaces.OrderReportRow{
			OrderID:     o.ID,
			Channel:     "restaurant",
			Date:        o.CreatedAt,
			TotalAmount: o.Price,
			Items:       describeDish(o.MenuItem.Name, o.Toppings, o.Quantity),
			Status:      o.Status,
		})
	}
	return rows, nil
}

// AllocateCustomerOrder splits a customer order's total across the revenue
// table.
func (s *Service) AllocateCustomerOrder(ctx context.Context, orderID int) (*domain.RevenueAllocation, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	allocation := s.allocation.Allocate(order.TotalAmount)
	return &allocation, nil
}

// AllocateRestaurantPayment splits a walk-in payment's amount across the
// revenue table.
func (s *Service) AllocateRestaurantPayment(ctx context.Context, paymentID int) (*domain.RevenueAllocation, error) {
	payment, err := s.restaurant.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	allocation := s.allocation.Allocate(payment.Amount)
	return &allocation, nil
}

func describeLineItems(items []domain.LineItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = describeDish(item.MenuItem.Name, item.Toppings, item.Quantity)
	}
	return strings.Join(parts, "; ")
}

func describeDish(name string, toppings []domain.Topping, quantity int) string {
	desc := fmt.Sprintf("%s x%d", name, quantity)
	if len(toppings) > 0 {
		names := make([]string, len(toppings))
		for i, t := range toppings {
			names[i] = t.Name
		}
		desc += " (Toppings: " + strings.Join(names, ", ") + ")"
	}
	return desc
}
