package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

// Service implements the walk-in order lifecycle: create, advance status,
// edit while pending, and settle payment after serving.
type Service struct {
	orders    interfaces.RestaurantOrderRepository
	catalog   interfaces.CatalogLookup
	publisher interfaces.NotificationPublisher
	logger    logger.Logger
}

func NewService(
	orders interfaces.RestaurantOrderRepository,
	catalog interfaces.CatalogLookup,
	publisher interfaces.NotificationPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
	}
}

// Create resolves and prices a new pending walk-in order. The dish and all
// toppings must exist and be available.
func (s *Service) Create(ctx context.Context, cmd interfaces.RestaurantOrderCommand) (*domain.RestaurantOrder, error) {
	menuItem, toppings, err := s.resolveAvailable(ctx, cmd.FoodName, cmd.Toppings)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewRestaurantOrder(*menuItem, toppings, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create restaurant order", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "Walk-In Order Created",
		fmt.Sprintf("Order #%d: %s x%d", order.ID, order.MenuItem.Name, order.Quantity))

	return order, nil
}

// UpdateStatus applies the generic forward-only transition.
func (s *Service) UpdateStatus(ctx context.Context, orderID int, status domain.Status) (*domain.RestaurantOrder, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update order status", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "Order Status Updated",
		fmt.Sprintf("Order #%d moved from %s to %s", order.ID, previous, order.Status))

	return order, nil
}

func (s *Service) Confirm(ctx context.Context, orderID int) error {
	return s.advance(ctx, orderID, domain.StatusPending, domain.StatusConfirmed)
}

func (s *Service) SendToKitchen(ctx context.Context, orderID int) error {
	return s.advance(ctx, orderID, domain.StatusConfirmed, domain.StatusPreparing)
}

func (s *Service) MarkReady(ctx context.Context, orderID int) error {
	return s.advance(ctx, orderID, domain.StatusPreparing, domain.StatusReady)
}

func (s *Service) Serve(ctx context.Context, orderID int) error {
	return s.advance(ctx, orderID, domain.StatusReady, domain.StatusServed)
}

// advance performs a named single-step transition that requires the exact
// preceding stage.
func (s *Service) advance(ctx context.Context, orderID int, expected, next domain.Status) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := order.Advance(expected, next); err != nil {
		return err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update order status", "", nil, err)
		return err
	}

	s.notify(ctx, "Order Status Updated",
		fmt.Sprintf("Order #%d moved from %s to %s", order.ID, expected, next))

	return nil
}

// Update replaces the order contents and recomputes the price. Only pending
// orders may be edited.
func (s *Service) Update(ctx context.Context, orderID int, cmd interfaces.RestaurantOrderCommand) (*domain.RestaurantOrder, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	menuItem, toppings, err := s.resolveAvailable(ctx, cmd.FoodName, cmd.Toppings)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateContents(*menuItem, toppings, cmd.Quantity); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update restaurant order", "", nil, err)
		return nil, err
	}

	s.notify(ctx, "Walk-In Order Updated",
		fmt.Sprintf("Order #%d: %s x%d", order.ID, order.MenuItem.Name, order.Quantity))

	return order, nil
}

// Delete removes a pending order; any later stage rejects deletion.
func (s *Service) Delete(ctx context.Context, orderID int) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPending {
		return domain.InvalidStateError{Reason: "only pending orders can be deleted"}
	}
	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return err
	}

	s.notify(ctx, "Walk-In Order Deleted", fmt.Sprintf("Order #%d was deleted", order.ID))

	return nil
}

// Pay reconciles the presented amount against the order price. Serving must
// precede settlement.
func (s *Service) Pay(ctx context.Context, orderID int, cmd interfaces.PaymentCommand) (*domain.RestaurantPayment, error) {
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

	s.notify(ctx, "Walk-In Order Paid",
		fmt.Sprintf("Order #%d paid. Amount: %s", order.ID, order.Payment.Amount.StringFixed(2)))

	return order.Payment, nil
}

func (s *Service) Order(ctx context.Context, orderID int) (*domain.RestaurantOrder, error) {
	return s.orders.FindByID(ctx, orderID)
}

func (s *Service) Orders(ctx context.Context) ([]*domain.RestaurantOrder, error) {
	return s.orders.FindAll(ctx)
}

func (s *Service) OrdersByStatus(ctx context.Context, status domain.Status) ([]*domain.RestaurantOrder, error) {
	if !status.Valid() {
		return nil, domain.ValidationError{Field: "status", Message: "unknown status " + string(status)}
	}
	return s.orders.FindByStatus(ctx, status)
}

func (s *Service) OrdersToday(ctx context.Context) ([]*domain.RestaurantOrder, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.orders.FindByDateRange(ctx, start, start.AddDate(0, 0, 1))
}

// resolveAvailable resolves the dish and toppings and enforces availability.
// A missing name is NotFound; an unavailable entry is InvalidState.
func (s *Service) resolveAvailable(ctx context.Context, foodName string, toppingNames []string) (*domain.MenuItem, []domain.Topping, error) {
	menuItem, err := s.catalog.ResolveMenuItem(ctx, foodName)
	if err != nil {
		return nil, nil, fmt.Errorf("menu lookup failed: %w", err)
	}
	if menuItem == nil {
		return nil, nil, domain.NotFoundError{Entity: "menu item", Name: foodName}
	}
	if !menuItem.Available {
		return nil, nil, domain.InvalidStateError{Reason: "menu item is not available: " + foodName}
	}

	var toppings []domain.Topping
	for _, name := range toppingNames {
		topping, err := s.catalog.ResolveTopping(ctx, name)
		if err != nil {
			return nil, nil, fmt.Errorf("topping lookup failed: %w", err)
		}
		if topping == nil {
			return nil, nil, domain.NotFoundError{Entity: "topping", Name: name}
		}
		if !topping.Available {
			return nil, nil, domain.InvalidStateError{Reason: "topping is not available: " + name}
		}
		toppings = append(toppings, *topping)
	}

	return menuItem, toppings, nil
}

func (s *Service) notify(ctx context.Context, title, body string) {
	n := interfaces.Notification{Title: title, Body: body}
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish notification", "", map[string]interface{}{
			"title": title,
		}, err)
	}
}
