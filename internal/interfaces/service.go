package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

// Commands carried from the transport adapters into the services. Optional
// fields are pointers so "absent" and "zero" stay distinguishable.

type LineItemCommand struct {
	FoodName string
	Toppings []string
	Quantity *int
}

type RestaurantOrderCommand struct {
	FoodName string
	Toppings []string
	Quantity *int
}

type PaymentCommand struct {
	AmountPaid *decimal.Decimal
	Method     string
}

// OrderService is the customer-channel lifecycle.
type OrderService interface {
	PlaceOrder(ctx context.Context, customerID int) (*domain.Order, error)
	AddLineItem(ctx context.Context, customerID, orderID int, cmd LineItemCommand) (*domain.Order, error)
	UpdateLineItem(ctx context.Context, customerID, itemID int, cmd LineItemCommand) (*domain.Order, error)
	DeleteOrder(ctx context.Context, customerID, orderID int) error
	Pay(ctx context.Context, customerID, orderID int, cmd PaymentCommand) (*domain.Payment, error)
	OrdersByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error)
}

// RestaurantService is the walk-in channel lifecycle.
type RestaurantService interface {
	Create(ctx context.Context, cmd RestaurantOrderCommand) (*domain.RestaurantOrder, error)
	UpdateStatus(ctx context.Context, orderID int, status domain.Status) (*domain.RestaurantOrder, error)
	Confirm(ctx context.Context, orderID int) error
	SendToKitchen(ctx context.Context, orderID int) error
	MarkReady(ctx context.Context, orderID int) error
	Serve(ctx context.Context, orderID int) error
	Update(ctx context.Context, orderID int, cmd RestaurantOrderCommand) (*domain.RestaurantOrder, error)
	Delete(ctx context.Context, orderID int) error
	Pay(ctx context.Context, orderID int, cmd PaymentCommand) (*domain.RestaurantPayment, error)
	Order(ctx context.Context, orderID int) (*domain.RestaurantOrder, error)
	Orders(ctx context.Context) ([]*domain.RestaurantOrder, error)
	OrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.RestaurantOrder, error)
	OrdersToday(ctx context.Context) ([]*domain.RestaurantOrder, error)
}

// DailySales is one zero-filled entry of a weekly or monthly trend.
type DailySales struct {
	Date            time.Time
	CustomerSales   decimal.Decimal
	RestaurantSales decimal.Decimal
	TotalSales      decimal.Decimal
}

// WeeklyOrders carries both channels' orders for one ISO week.
type WeeklyOrders struct {
	WeekStart        time.Time
	WeekEnd          time.Time
	CustomerOrders   []*domain.Order
	RestaurantOrders []*domain.RestaurantOrder
}

// MenuPerformance ranks a dish by completed walk-in sales.
type MenuPerformance struct {
	FoodName     string
	QuantitySold int
	Revenue      decimal.Decimal
}

// OrderReportRow is one line of the combined both-channel listing.
type OrderReportRow struct {
	OrderID     int
	Channel     string
	Date        time.Time
	TotalAmount decimal.Decimal
	Items       string
	Status      domain.Status
}

// ReportsService is the sales aggregation and revenue allocation surface.
type ReportsService interface {
	OrdersByWeek(ctx context.Context, date time.Time) (*WeeklyOrders, error)
	CompareWeeklySales(ctx context.Context, date time.Time) ([]DailySales, error)
	CompareMonthlySales(ctx context.Context, month, year int) ([]DailySales, error)
	MenuPerformance(ctx context.Context) ([]MenuPerformance, error)
	DailyTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	AllOrders(ctx context.Context) ([]OrderReportRow, error)
	AllocateCustomerOrder(ctx context.Context, orderID int) (*domain.RevenueAllocation, error)
	AllocateRestaurantPayment(ctx context.Context, paymentID int) (*domain.RevenueAllocation, error)
}
