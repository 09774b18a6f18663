package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(action, message, requestID string, details map[string]interface{})  {}
func (nopLogger) Debug(action, message, requestID string, details map[string]interface{}) {}
func (nopLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
}

type fakeOrders struct {
	orders map[int]*domain.Order
	nextID int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[int]*domain.Order), nextID: 1}
}

func (f *fakeOrders) Create(ctx context.Context, order *domain.Order) error {
	order.ID = f.nextID
	order.Version = 1
	f.nextID++
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrders) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFoundError{Entity: "order"}
	}
	return order, nil
}

func (f *fakeOrders) FindByItemID(ctx context.Context, itemID int) (*domain.Order, error) {
	for _, order := range f.orders {
		for _, item := range order.Items {
			if item.ID == itemID {
				return order, nil
			}
		}
	}
	return nil, domain.NotFoundError{Entity: "order item"}
}

func (f *fakeOrders) FindByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID {
			result = append(result, order)
		}
	}
	return result, nil
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

func (f *fakeOrders) Update(ctx context.Context, order *domain.Order) error {
	for i := range order.Items {
		if order.Items[i].ID == 0 {
			order.Items[i].ID = f.nextID
			f.nextID++
		}
	}
	order.Version++
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, id int) error {
	if _, ok := f.orders[id]; !ok {
		return domain.NotFoundError{Entity: "order"}
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrders) DeleteEmpty(ctx context.Context) (int64, error) {
	var removed int64
	for id, order := range f.orders {
		if order.Empty() {
			delete(f.orders, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeOrders) SavePayment(ctx context.Context, order *domain.Order) error {
	order.Payment.ID = f.nextID
	f.nextID++
	order.Version++
	return nil
}

type fakeCustomers struct {
	customers map[int]*domain.Customer
}

func (f *fakeCustomers) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, domain.NotFoundError{Entity: "customer"}
	}
	return customer, nil
}

type fakeCatalog struct {
	menu     map[string]domain.MenuItem
	toppings map[string]domain.Topping
}

func (f *fakeCatalog) ResolveMenuItem(ctx context.Context, name string) (*domain.MenuItem, error) {
	item, ok := f.menu[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (f *fakeCatalog) ResolveTopping(ctx context.Context, name string) (*domain.Topping, error) {
	topping, ok := f.toppings[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	return &topping, nil
}

type fakePublisher struct {
	published []interfaces.Notification
}

func (f *fakePublisher) Publish(ctx context.Context, n interfaces.Notification) error {
	f.published = append(f.published, n)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService() (*Service, *fakeOrders, *fakePublisher) {
	orders := newFakeOrders()
	customers := &fakeCustomers{customers: map[int]*domain.Customer{
		1: {ID: 1, Name: "Alice", Email: "alice@example.com"},
	}}
	catalog := &fakeCatalog{
		menu: map[string]domain.MenuItem{
			"burger": {ID: 1, Name: "Burger", Price: dec("8.00"), Available: true},
			"pasta":  {ID: 2, Name: "Pasta", Price: dec("6.50"), Available: true},
		},
		toppings: map[string]domain.Topping{
			"cheese": {ID: 1, Name: "Cheese", Price: dec("1.00"), Available: true},
		},
	}
	publisher := &fakePublisher{}
	return NewService(orders, customers, catalog, publisher, nopLogger{}), orders, publisher
}

func TestPlaceOrder(t *testing.T) {
	service, orders, publisher := newTestService()
	ctx := context.Background()

	order, err := service.PlaceOrder(ctx, 1)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if !order.TotalAmount.Equal(decimal.Zero) {
		t.Errorf("total = %s, want 0", order.TotalAmount)
	}
	if _, err := orders.FindByID(ctx, order.ID); err != nil {
		t.Errorf("order was not persisted: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0].Title != "New Order Placed" {
		t.Errorf("published = %+v, want one placement notification", publisher.published)
	}
}

func TestPlaceOrderUnknownCustomer(t *testing.T) {
	service, _, _ := newTestService()

	if _, err := service.PlaceOrder(context.Background(), 99); !domain.IsNotFound(err) {
		t.Errorf("PlaceOrder(unknown customer) error = %v, want not found", err)
	}
}

func TestPlaceOrderCleansUpEmptyOrders(t *testing.T) {
	service, orders, _ := newTestService()
	ctx := context.Background()

	abandoned, err := service.PlaceOrder(ctx, 1)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	fresh, err := service.PlaceOrder(ctx, 1)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if _, err := orders.FindByID(ctx, abandoned.ID); !domain.IsNotFound(err) {
		t.Errorf("abandoned empty order should have been removed, got %v", err)
	}
	if _, err := orders.FindByID(ctx, fresh.ID); err != nil {
		t.Errorf("fresh order should survive: %v", err)
	}
}

func TestAddLineItem(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)

	two := 2
	updated, err := service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{
		FoodName: "Burger",
		Toppings: []string{"Cheese"},
		Quantity: &two,
	})
	if err != nil {
		t.Fatalf("AddLineItem() error = %v", err)
	}

	if len(updated.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(updated.Items))
	}
	if !updated.Items[0].Price.Equal(dec("18.00")) {
		t.Errorf("item price = %s, want 18.00", updated.Items[0].Price)
	}
	if !updated.TotalAmount.Equal(dec("18.00")) {
		t.Errorf("total = %s, want 18.00", updated.TotalAmount)
	}
}

func TestAddLineItemDefaultsQuantity(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)

	updated, err := service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{FoodName: "pasta"})
	if err != nil {
		t.Fatalf("AddLineItem() error = %v", err)
	}
	if updated.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", updated.Items[0].Quantity)
	}
	if !updated.TotalAmount.Equal(dec("6.50")) {
		t.Errorf("total = %s, want 6.50", updated.TotalAmount)
	}
}

func TestAddLineItemUnknownNames(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)

	if _, err := service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{FoodName: "Sushi"}); !domain.IsNotFound(err) {
		t.Errorf("unknown dish error = %v, want not found", err)
	}

	_, err := service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{
		FoodName: "Burger",
		Toppings: []string{"Cheese", "Truffle"},
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("unknown topping error = %v, want not found", err)
	}

	// The failed item must not have touched the order.
	current, _ := service.OrdersByCustomer(ctx, 1)
	if len(current) != 1 || len(current[0].Items) != 0 {
		t.Error("failed item resolution must leave the order unchanged")
	}
}

func TestUpdateLineItem(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)
	two := 2
	order, _ = service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{
		FoodName: "Burger",
		Toppings: []string{"Cheese"},
		Quantity: &two,
	})
	itemID := order.Items[0].ID

	three := 3
	updated, err := service.UpdateLineItem(ctx, 1, itemID, interfaces.LineItemCommand{Quantity: &three})
	if err != nil {
		t.Fatalf("UpdateLineItem() error = %v", err)
	}
	if !updated.TotalAmount.Equal(dec("27.00")) {
		t.Errorf("total after quantity bump = %s, want 27.00", updated.TotalAmount)
	}

	updated, err = service.UpdateLineItem(ctx, 1, itemID, interfaces.LineItemCommand{FoodName: "Pasta", Toppings: []string{}})
	if err != nil {
		t.Fatalf("UpdateLineItem() error = %v", err)
	}
	if !updated.TotalAmount.Equal(dec("19.50")) {
		t.Errorf("total after dish swap = %s, want 19.50", updated.TotalAmount)
	}
}

func TestUpdateLineItemRejectsCompletedOrder(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)
	order, _ = service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{FoodName: "Burger"})
	itemID := order.Items[0].ID

	amount := order.TotalAmount
	if _, err := service.Pay(ctx, 1, order.ID, interfaces.PaymentCommand{AmountPaid: &amount, Method: "card"}); err != nil {
		t.Fatalf("Pay() error = %v", err)
	}

	one := 1
	if _, err := service.UpdateLineItem(ctx, 1, itemID, interfaces.LineItemCommand{Quantity: &one}); !domain.IsInvalidState(err) {
		t.Errorf("UpdateLineItem on paid order error = %v, want invalid state", err)
	}
}

func TestPay(t *testing.T) {
	service, _, publisher := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)
	two := 2
	order, _ = service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{
		FoodName: "Burger",
		Toppings: []string{"Cheese"},
		Quantity: &two,
	})

	short := dec("17.99")
	if _, err := service.Pay(ctx, 1, order.ID, interfaces.PaymentCommand{AmountPaid: &short, Method: "card"}); !domain.IsValidation(err) {
		t.Errorf("Pay(17.99) error = %v, want validation", err)
	}

	if _, err := service.Pay(ctx, 1, order.ID, interfaces.PaymentCommand{Method: "card"}); !domain.IsValidation(err) {
		t.Errorf("Pay(missing amount) error = %v, want validation", err)
	}

	exact := dec("18.00")
	payment, err := service.Pay(ctx, 1, order.ID, interfaces.PaymentCommand{AmountPaid: &exact, Method: "card"})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if !payment.Amount.Equal(exact) {
		t.Errorf("payment amount = %s, want 18.00", payment.Amount)
	}
	if order.Status != domain.StatusCompleted {
		t.Errorf("status after payment = %s, want completed", order.Status)
	}

	if _, err := service.Pay(ctx, 1, order.ID, interfaces.PaymentCommand{AmountPaid: &exact, Method: "card"}); !domain.IsInvalidState(err) {
		t.Errorf("Pay on paid order error = %v, want invalid state", err)
	}

	last := publisher.published[len(publisher.published)-1]
	if last.Title != "Order Paid" {
		t.Errorf("last notification = %q, want payment", last.Title)
	}
}

func TestDeleteOrder(t *testing.T) {
	service, orders, _ := newTestService()
	ctx := context.Background()

	order, _ := service.PlaceOrder(ctx, 1)
	order, _ = service.AddLineItem(ctx, 1, order.ID, interfaces.LineItemCommand{FoodName: "Burger"})

	if err := service.DeleteOrder(ctx, 1, order.ID); err != nil {
		t.Fatalf("DeleteOrder() error = %v", err)
	}
	if _, err := orders.FindByID(ctx, order.ID); !domain.IsNotFound(err) {
		t.Error("deleted order should be gone")
	}

	if err := service.DeleteOrder(ctx, 1, order.ID); !domain.IsNotFound(err) {
		t.Errorf("DeleteOrder(missing) error = %v, want not found", err)
	}
}
