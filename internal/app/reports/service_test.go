package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(action, message, requestID string, details map[string]interface{})  {}
func (nopLogger) Debug(action, message, requestID string, details map[string]interface{}) {}
func (nopLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
}

type fakeOrders struct {
	orders []*domain.Order
}

func (f *fakeOrders) Create(ctx context.Context, order *domain.Order) error { return nil }

func (f *fakeOrders) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	for _, order := range f.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, domain.NotFoundError{Entity: "order"}
}

func (f *fakeOrders) FindByItemID(ctx context.Context, itemID int) (*domain.Order, error) {
	return nil, domain.NotFoundError{Entity: "order item"}
}

func (f *fakeOrders) FindByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrders) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range f.orders {
		if !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			result = append(result, order)
		}
	}
	return result, nil
}

func (f *fakeOrders) Update(ctx context.Context, order *domain.Order) error { return nil }
func (f *fakeOrders) Delete(ctx context.Context, id int) error              { return nil }
func (f *fakeOrders) DeleteEmpty(ctx context.Context) (int64, error)        { return 0, nil }
func (f *fakeOrders) SavePayment(ctx context.Context, order *domain.Order) error {
	return nil
}

type fakeRestaurant struct {
	orders   []*domain.RestaurantOrder
	payments map[int]*domain.RestaurantPayment
}

func (f *fakeRestaurant) Create(ctx context.Context, order *domain.RestaurantOrder) error {
	return nil
}

func (f *fakeRestaurant) FindByID(ctx context.Context, id int) (*domain.RestaurantOrder, error) {
	for _, order := range f.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, domain.NotFoundError{Entity: "order"}
}

func (f *fakeRestaurant) FindAll(ctx context.Context) ([]*domain.RestaurantOrder, error) {
	return f.orders, nil
}

func (f *fakeRestaurant) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.RestaurantOrder, error) {
	var result []*domain.RestaurantOrder
	for _, order := range f.orders {
		if order.Status == status {
			result = append(result, order)
		}
	}
	return result, nil
}

func (f *fakeRestaurant) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.RestaurantOrder, error) {
	var result []*domain.RestaurantOrder
	for _, order := range f.orders {
		if !order.CreatedAt.Before(from) && order.CreatedAt.Before(to) {
			result = append(result, order)
		}
	}
	return result, nil
}

func (f *fakeRestaurant) FindPaymentByID(ctx context.Context, paymentID int) (*domain.RestaurantPayment, error) {
	payment, ok := f.payments[paymentID]
	if !ok {
		return nil, domain.NotFoundError{Entity: "payment"}
	}
	return payment, nil
}

func (f *fakeRestaurant) Update(ctx context.Context, order *domain.RestaurantOrder) error {
	return nil
}
func (f *fakeRestaurant) Delete(ctx context.Context, id int) error { return nil }
func (f *fakeRestaurant) SavePayment(ctx context.Context, order *domain.RestaurantOrder) error {
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		t.Fatalf("bad date %s: %v", s, err)
	}
	return parsed
}

func customerOrder(id int, createdAt time.Time, total string) *domain.Order {
	return &domain.Order{
		ID:          id,
		CustomerID:  1,
		Status:      domain.StatusPending,
		TotalAmount: dec(total),
		CreatedAt:   createdAt,
	}
}

func restaurantOrder(id int, createdAt time.Time, dish string, quantity int, price string, status domain.Status) *domain.RestaurantOrder {
	return &domain.RestaurantOrder{
		ID:        id,
		MenuItem:  domain.MenuItem{Name: dish, Available: true},
		Quantity:  quantity,
		Price:     dec(price),
		Status:    status,
		CreatedAt: createdAt,
	}
}

func newTestService(orders *fakeOrders, restaurant *fakeRestaurant) *Service {
	return NewService(orders, restaurant, domain.DefaultAllocationTable(), nopLogger{})
}

func TestCompareWeeklySales(t *testing.T) {
	// 2025-01-15 is a Wednesday; its ISO week runs Monday the 13th through
	// Sunday the 19th.
	orders := &fakeOrders{orders: []*domain.Order{
		customerOrder(1, day(t, "2025-01-13"), "18.00"),
		customerOrder(2, day(t, "2025-01-13"), "6.50"),
		customerOrder(3, day(t, "2025-01-12"), "99.00"), // previous week
	}}
	restaurant := &fakeRestaurant{orders: []*domain.RestaurantOrder{
		restaurantOrder(1, day(t, "2025-01-15"), "Burger", 2, "16.00", domain.StatusServed),
	}}

	trend, err := newTestService(orders, restaurant).CompareWeeklySales(context.Background(), day(t, "2025-01-15"))
	if err != nil {
		t.Fatalf("CompareWeeklySales() error = %v", err)
	}

	if len(trend) != 7 {
		t.Fatalf("trend entries = %d, want 7", len(trend))
	}
	if got := trend[0].Date.Format("2006-01-02"); got != "2025-01-13" {
		t.Errorf("week starts %s, want Monday 2025-01-13", got)
	}

	if !trend[0].CustomerSales.Equal(dec("24.50")) {
		t.Errorf("Monday customer sales = %s, want 24.50", trend[0].CustomerSales)
	}
	if !trend[2].RestaurantSales.Equal(dec("16.00")) {
		t.Errorf("Wednesday restaurant sales = %s, want 16.00", trend[2].RestaurantSales)
	}
	if !trend[2].TotalSales.Equal(dec("16.00")) {
		t.Errorf("Wednesday total = %s, want 16.00", trend[2].TotalSales)
	}

	// Days with no orders are present and zero.
	for _, i := range []int{1, 3, 4, 5, 6} {
		if !trend[i].TotalSales.Equal(decimal.Zero) {
			t.Errorf("day %d total = %s, want 0", i, trend[i].TotalSales)
		}
	}
}

func TestCompareMonthlySales(t *testing.T) {
	orders := &fakeOrders{orders: []*domain.Order{
		customerOrder(1, day(t, "2025-02-10"), "12.00"),
	}}
	restaurant := &fakeRestaurant{}

	service := newTestService(orders, restaurant)

	trend, err := service.CompareMonthlySales(context.Background(), 2, 2025)
	if err != nil {
		t.Fatalf("CompareMonthlySales() error = %v", err)
	}
	if len(trend) != 28 {
		t.Fatalf("February 2025 entries = %d, want 28", len(trend))
	}
	if !trend[9].CustomerSales.Equal(dec("12.00")) {
		t.Errorf("Feb 10 sales = %s, want 12.00", trend[9].CustomerSales)
	}

	if _, err := service.CompareMonthlySales(context.Background(), 13, 2025); !domain.IsValidation(err) {
		t.Errorf("CompareMonthlySales(13) error = %v, want validation", err)
	}
}

func TestOrdersByWeek(t *testing.T) {
	orders := &fakeOrders{orders: []*domain.Order{
		customerOrder(1, day(t, "2025-01-14"), "10.00"),
		customerOrder(2, day(t, "2025-01-20"), "20.00"), // next week
	}}
	restaurant := &fakeRestaurant{orders: []*domain.RestaurantOrder{
		restaurantOrder(1, day(t, "2025-01-19"), "Pasta", 1, "6.50", domain.StatusPending),
	}}

	week, err := newTestService(orders, restaurant).OrdersByWeek(context.Background(), day(t, "2025-01-15"))
	if err != nil {
		t.Fatalf("OrdersByWeek() error = %v", err)
	}
	if got := week.WeekStart.Format("2006-01-02"); got != "2025-01-13" {
		t.Errorf("week start = %s, want 2025-01-13", got)
	}
	if got := week.WeekEnd.Format("2006-01-02"); got != "2025-01-19" {
		t.Errorf("week end = %s, want 2025-01-19", got)
	}
	if len(week.CustomerOrders) != 1 {
		t.Errorf("customer orders = %d, want 1", len(week.CustomerOrders))
	}
	if len(week.RestaurantOrders) != 1 {
		t.Errorf("restaurant orders = %d, want 1", len(week.RestaurantOrders))
	}
}

func TestMenuPerformance(t *testing.T) {
	now := time.Now()
	restaurant := &fakeRestaurant{orders: []*domain.RestaurantOrder{
		restaurantOrder(1, now, "Burger", 2, "16.00", domain.StatusCompleted),
		restaurantOrder(2, now, "Burger", 3, "24.00", domain.StatusCompleted),
		restaurantOrder(3, now, "Pasta", 1, "6.50", domain.StatusCompleted),
		restaurantOrder(4, now, "Soup", 10, "40.00", domain.StatusPending), // not completed
	}}

	ranking, err := newTestService(&fakeOrders{}, restaurant).MenuPerformance(context.Background())
	if err != nil {
		t.Fatalf("MenuPerformance() error = %v", err)
	}

	if len(ranking) != 2 {
		t.Fatalf("ranking entries = %d, want 2", len(ranking))
	}
	if ranking[0].FoodName != "Burger" || ranking[0].QuantitySold != 5 {
		t.Errorf("top dish = %s x%d, want Burger x5", ranking[0].FoodName, ranking[0].QuantitySold)
	}
	if !ranking[0].Revenue.Equal(dec("40.00")) {
		t.Errorf("Burger revenue = %s, want 40.00", ranking[0].Revenue)
	}
	if ranking[1].FoodName != "Pasta" {
		t.Errorf("second dish = %s, want Pasta", ranking[1].FoodName)
	}
}

func TestDailyTotal(t *testing.T) {
	from := day(t, "2025-01-15")
	restaurant := &fakeRestaurant{orders: []*domain.RestaurantOrder{
		restaurantOrder(1, from.Add(2*time.Hour), "Burger", 1, "8.00", domain.StatusServed),
		restaurantOrder(2, from.Add(20*time.Hour), "Pasta", 2, "13.00", domain.StatusCompleted),
		restaurantOrder(3, from.AddDate(0, 0, 1), "Soup", 1, "4.00", domain.StatusPending),
	}}

	total, err := newTestService(&fakeOrders{}, restaurant).DailyTotal(context.Background(), from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("DailyTotal() error = %v", err)
	}
	if !total.Equal(dec("21.00")) {
		t.Errorf("total = %s, want 21.00", total)
	}
}

func TestAllOrders(t *testing.T) {
	now := time.Now()
	orders := &fakeOrders{orders: []*domain.Order{
		{
			ID:          1,
			CustomerID:  1,
			Status:      domain.StatusCompleted,
			TotalAmount: dec("18.00"),
			Items: []domain.LineItem{{
				MenuItem: domain.MenuItem{Name: "Burger"},
				Toppings: []domain.Topping{{Name: "Cheese"}},
				Quantity: 2,
			}},
			CreatedAt: now,
		},
	}}
	restaurant := &fakeRestaurant{orders: []*domain.RestaurantOrder{
		restaurantOrder(1, now, "Pasta", 1, "6.50", domain.StatusPending),
	}}

	rows, err := newTestService(orders, restaurant).AllOrders(context.Background())
	if err != nil {
		t.Fatalf("AllOrders() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Channel != "customer" || rows[1].Channel != "restaurant" {
		t.Errorf("channels = %s, %s, want customer then restaurant", rows[0].Channel, rows[1].Channel)
	}
	if rows[0].Items != "Burger x2 (Toppings: Cheese)" {
		t.Errorf("items description = %q", rows[0].Items)
	}
}

func TestAllocate(t *testing.T) {
	orders := &fakeOrders{orders: []*domain.Order{
		customerOrder(1, time.Now(), "100.00"),
	}}
	restaurant := &fakeRestaurant{payments: map[int]*domain.RestaurantPayment{
		7: {ID: 7, OrderID: 3, Amount: dec("18.00")},
	}}

	service := newTestService(orders, restaurant)
	ctx := context.Background()

	allocation, err := service.AllocateCustomerOrder(ctx, 1)
	if err != nil {
		t.Fatalf("AllocateCustomerOrder() error = %v", err)
	}
	if !allocation.Inventory.Equal(dec("60.00")) ||
		!allocation.Profit.Equal(dec("20.00")) ||
		!allocation.Workers.Equal(dec("10.00")) ||
		!allocation.Other.Equal(dec("10.00")) {
		t.Errorf("allocation of 100.00 = %+v, want 60/20/10/10", allocation)
	}

	fromPayment, err := service.AllocateRestaurantPayment(ctx, 7)
	if err != nil {
		t.Fatalf("AllocateRestaurantPayment() error = %v", err)
	}
	sum := fromPayment.Inventory.Add(fromPayment.Profit).Add(fromPayment.Workers).Add(fromPayment.Other)
	if !sum.Equal(dec("18.00")) {
		t.Errorf("allocation shares sum to %s, want 18.00", sum)
	}

	if _, err := service.AllocateRestaurantPayment(ctx, 99); !domain.IsNotFound(err) {
		t.Errorf("AllocateRestaurantPayment(missing) error = %v, want not found", err)
	}
}
