package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

// Service implements the customer-channel order lifecycle: place, edit line
// items, delete, and reconcile payment.
type Service struct {
	orders    interfaces.OrderRepository
	customers interfaces.CustomerRepository
	catalog   interfaces.CatalogLookup
	publisher interfaces.NotificationPublisher
	logger    logger.Logger
}

func NewService(
	orders interfaces.OrderRepository,
	customers interfaces.CustomerRepository,
	catalog interfaces.CatalogLookup,
	publisher interfaces.NotificationPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		customers: customers,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder opens a new empty pending order for the customer. Abandoned
// empty orders are cleaned up first.
func (s *Service) PlaceOrder(ctx context.Context, customerID int) (*domain.Order, error) {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if removed, err := s.orders.DeleteEmpty(ctx); err != nil {
		return nil, fmt.Errorf("failed to clean up empty orders: %w", err)
	} else if removed > 0 {
		s.logger.Debug("empty_orders_removed", "Removed empty orders", "", map[string]interface{}{"count": removed})
	}

	order := domain.NewOrder(customer.ID)
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "New Order Placed",
		fmt.Sprintf("Order #%d has been placed by %s.", order.ID, customer.Name))

	return order, nil
}

// AddLineItem resolves the dish and toppings, prices the item and appends
// it to the order, recomputing the stored total in the same transaction.
func (s *Service) AddLineItem(ctx context.Context, customerID, orderID int, cmd interfaces.LineItemCommand) (*domain.Order, error) {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	menuItem, err := s.resolveMenuItem(ctx, cmd.FoodName)
	if err != nil {
		return nil, err
	}
	toppings, err := s.resolveToppings(ctx, cmd.Toppings)
	if err != nil {
		return nil, err
	}

	item := domain.NewLineItem(*menuItem, toppings, cmd.Quantity)
	if err := order.AddItem(item); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to save order items", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "Order Items Added",
		fmt.Sprintf("Customer %s added items to Order #%d: %s", customer.Name, order.ID, describeItem(item)))

	return order, nil
}

// UpdateLineItem changes a line item's dish, toppings or quantity and
// recomputes both the item price and the order total. Rejected once the
// order is completed.
func (s *Service) UpdateLineItem(ctx context.Context, customerID, itemID int, cmd interfaces.LineItemCommand) (*domain.Order, error) {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.StatusCompleted {
		return nil, domain.InvalidStateError{Reason: "cannot update order items for a completed order"}
	}

	item := order.ItemByID(itemID)
	if item == nil {
		return nil, domain.NotFoundError{Entity: "order item"}
	}

	if cmd.FoodName != "" {
		menuItem, err := s.resolveMenuItem(ctx, cmd.FoodName)
		if err != nil {
			return nil, err
		}
		item.MenuItem = *menuItem
	}
	if cmd.Toppings != nil {
		toppings, err := s.resolveToppings(ctx, cmd.Toppings)
		if err != nil {
			return nil, err
		}
		item.Toppings = toppings
	}
	if cmd.Quantity != nil && *cmd.Quantity > 0 {
		item.Quantity = *cmd.Quantity
	}
	item.Reprice()
	order.RecomputeTotal()

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to save order items", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "Order Item Updated",
		fmt.Sprintf("Customer %s updated items in Order #%d", customer.Name, order.ID))

	return order, nil
}

// DeleteOrder removes the order and, by ownership, its line items and
// payment. Deletion is not blocked by status.
func (s *Service) DeleteOrder(ctx context.Context, customerID, orderID int) error {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return err
	}

	s.notify(ctx, "Order Cancelled",
		fmt.Sprintf("Customer %s deleted Order #%d", customer.Name, order.ID))

	return nil
}

// Pay reconciles the presented amount against the stored order total and,
// on an exact match, records the payment and completes the order.
func (s *Service) Pay(ctx context.Context, customerID, orderID int, cmd interfaces.PaymentCommand) (*domain.Payment, error) {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Settle(cmd.AmountPaid, cmd.Method, time.Now()); err != nil {
		return nil, err
	}

	if err := s.orders.SavePayment(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to save payment", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "Order Paid",
		fmt.Sprintf("Customer %s paid Order #%d. Amount: %s", customer.Name, order.ID, order.Payment.Amount.StringFixed(2)))

	return order.Payment, nil
}

// OrdersByCustomer lists the customer's orders, newest first per the
// repository's ordering.
func (s *Service) OrdersByCustomer(ctx context.Context, customerID int) ([]*domain.Order, error) {
	if _, err := s.customer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.FindByCustomer(ctx, customerID)
}

func (s *Service) customer(ctx context.Context, customerID int) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NotFoundError{Entity: "customer"}
	}
	return customer, nil
}

func (s *Service) resolveMenuItem(ctx context.Context, name string) (*domain.MenuItem, error) {
	menuItem, err := s.catalog.ResolveMenuItem(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("menu lookup failed: %w", err)
	}
	if menuItem == nil {
		return nil, domain.NotFoundError{Entity: "menu item", Name: name}
	}
	return menuItem, nil
}

// resolveToppings resolves every topping or none: the first missing name
// aborts the whole operation.
func (s *Service) resolveToppings(ctx context.Context, names []string) ([]domain.Topping, error) {
	var toppings []domain.Topping
	for _, name := range names {
		topping, err := s.catalog.ResolveTopping(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("topping lookup failed: %w", err)
		}
		if topping == nil {
			return nil, domain.NotFoundError{Entity: "topping", Name: name}
		}
		toppings = append(toppings, *topping)
	}
	return toppings, nil
}

// notify publishes a best-effort notification event; a delivery failure
// never fails the operation that triggered it.
func (s *Service) notify(ctx context.Context, title, body string) {
	n := interfaces.Notification{Title: title, Body: body}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish notification", "", map[string]interface{}{
			"title": title,
		}, err)
	}
}

func describeItem(item domain.LineItem) string {
	desc := fmt.Sprintf("%s x%d", item.MenuItem.Name, item.Quantity)
	if len(item.Toppings) > 0 {
		names := make([]string, len(item.Toppings))
		for i, t := range item.Toppings {
			names[i] = t.Name
		}
		desc += " (Toppings: " + strings.Join(names, ", ") + ")"
	}
	return desc
}
