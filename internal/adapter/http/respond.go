package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors onto HTTP statuses: missing entities to 404,
// state conflicts and concurrent modifications to 409, bad input to 400.
func writeError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case domain.IsNotFound(err):
		statusCode = http.StatusNotFound
		message = err.Error()
	case domain.IsInvalidState(err), errors.Is(err, domain.ErrConcurrentModification):
		statusCode = http.StatusConflict
		message = err.Error()
	case domain.IsValidation(err):
		statusCode = http.StatusBadRequest
		message = err.Error()
	}

	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

type ToppingResponse struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type LineItemResponse struct {
	ID       int               `json:"id"`
	FoodName string            `json:"food_name"`
	Toppings []ToppingResponse `json:"toppings"`
	Quantity int               `json:"quantity"`
	Price    decimal.Decimal   `json:"price"`
}

type PaymentResponse struct {
	ID     int             `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
}

type OrderResponse struct {
	ID          int                `json:"id"`
	CustomerID  int                `json:"customer_id"`
	Status      string             `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []LineItemResponse `json:"items"`
	Payment     *PaymentResponse   `json:"payment,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

type RestaurantOrderResponse struct {
	ID        int               `json:"id"`
	FoodName  string            `json:"food_name"`
	Toppings  []ToppingResponse `json:"toppings"`
	Quantity  int               `json:"quantity"`
	Price     decimal.Decimal   `json:"price"`
	Status    string            `json:"status"`
	Payment   *PaymentResponse  `json:"payment,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func toToppingResponses(toppings []domain.Topping) []ToppingResponse {
	result := make([]ToppingResponse, len(toppings))
	for i, t := range toppings {
		result[i] = ToppingResponse{Name: t.Name, Price: t.Price}
	}
	return result
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]LineItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = LineItemResponse{
			ID:       item.ID,
			FoodName: item.MenuItem.Name,
			Toppings: toToppingResponses(item.Toppings),
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	resp := OrderResponse{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
	if order.Payment != nil {
		resp.Payment = &PaymentResponse{
			ID:     order.Payment.ID,
			Amount: order.Payment.Amount,
			Method: order.Payment.Method,
			PaidAt: order.Payment.PaidAt,
		}
	}
	return resp
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	result := make([]OrderResponse, len(orders))
	for i, order := range orders {
		result[i] = toOrderResponse(order)
	}
	return result
}

func toRestaurantOrderResponse(order *domain.RestaurantOrder) RestaurantOrderResponse {
	resp := RestaurantOrderResponse{
		ID:        order.ID,
		FoodName:  order.MenuItem.Name,
		Toppings:  toToppingResponses(order.Toppings),
		Quantity:  order.Quantity,
		Price:     order.Price,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
	if order.Payment != nil {
		resp.Payment = &PaymentResponse{
			ID:     order.Payment.ID,
			Amount: order.Payment.Amount,
			Method: order.Payment.Method,
			PaidAt: order.Payment.PaidAt,
		}
	}
	return resp
}

func toRestaurantOrderResponses(orders []*domain.RestaurantOrder) []RestaurantOrderResponse {
	result := make([]RestaurantOrderResponse, len(orders))
	for i, order := range orders {
		result[i] = toRestaurantOrderResponse(order)
	}
	return result
}

type AllocationResponse struct {
	TotalPaid decimal.Decimal `json:"total_paid"`
	Inventory decimal.Decimal `json:"inventory"`
	Profit    decimal.Decimal `json:"profit"`
	Workers   decimal.Decimal `json:"workers"`
	Other     decimal.Decimal `json:"other"`
}

func toAllocationResponse(a *domain.RevenueAllocation) AllocationResponse {
	return AllocationResponse{
		TotalPaid: a.TotalPaid,
		Inventory: a.Inventory,
		Profit:    a.Profit,
		Workers:   a.Workers,
		Other:     a.Other,
	}
}

type LineItemRequest struct {
	FoodName string   `json:"food_name"`
	Toppings []string `json:"toppings"`
	Quantity *int     `json:"quantity,omitempty"`
}

func (r LineItemRequest) toCommand() interfaces.LineItemCommand {
	return interfaces.LineItemCommand{
		FoodName: r.FoodName,
		Toppings: r.Toppings,
		Quantity: r.Quantity,
	}
}

type PaymentRequest struct {
	AmountPaid *decimal.Decimal `json:"amount_paid,omitempty"`
	Method     string           `json:"method"`
}

func (r PaymentRequest) toCommand() interfaces.PaymentCommand {
	return interfaces.PaymentCommand{
		AmountPaid: r.AmountPaid,
		Method:     r.Method,
	}
}
