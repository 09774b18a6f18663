package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type RestaurantHandler struct {
	service interfaces.RestaurantService
	logger  logger.Logger
}

func NewRestaurantHandler(service interfaces.RestaurantService, logger logger.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
		logger:  logger,
	}
}

// HandleOrders routes everything under /restaurant-orders:
//
//	POST   /restaurant-orders               take a walk-in order
//	GET    /restaurant-orders               list orders (?status=, ?today=true)
//	GET    /restaurant-orders/{id}          fetch one order
//	PUT    /restaurant-orders/{id}          replace dish, toppings, quantity
//	DELETE /restaurant-orders/{id}          delete a pending order
//	PUT    /restaurant-orders/{id}/status   move to an explicit status
//	POST   /restaurant-orders/{id}/confirm  pending -> confirmed
//	POST   /restaurant-orders/{id}/prepare  confirmed -> preparing
//	POST   /restaurant-orders/{id}/ready    preparing -> ready
//	POST   /restaurant-orders/{id}/serve    ready -> served
//	POST   /restaurant-orders/{id}/payment  pay a served order
func (h *RestaurantHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 1 || parts[0] != "restaurant-orders" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodPost:
			h.create(w, r)
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	orderID, err := strconv.Atoi(parts[1])
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	if len(parts) == 2 {
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, orderID)
		case http.MethodPut:
			h.update(w, r, orderID)
		case http.MethodDelete:
			h.delete(w, r, orderID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) != 3 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch parts[2] {
	case "status":
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.updateStatus(w, r, orderID)
	case "confirm", "prepare", "ready", "serve":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.transition(w, r, orderID, parts[2])
	case "payment":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.pay(w, r, orderID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

type restaurantOrderRequest struct {
	FoodName string   `json:"food_name"`
	Toppings []string `json:"toppings"`
	Quantity *int     `json:"quantity,omitempty"`
}

func (h *RestaurantHandler) create(w http.ResponseWriter, r *http.Request) {
	var req restaurantOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.FoodName) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "food_name is required"})
		return
	}

	order, err := h.service.Create(r.Context(), interfaces.RestaurantOrderCommand{
		FoodName: req.FoodName,
		Toppings: req.Toppings,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create restaurant order", "", nil, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRestaurantOrderResponse(order))
}

func (h *RestaurantHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		orders []*domain.RestaurantOrder
		err    error
	)

	switch {
	case r.URL.Query().Get("today") == "true":
		orders, err = h.service.OrdersToday(r.Context())
	case r.URL.Query().Get("status") != "":
		orders, err = h.service.OrdersByStatus(r.Context(), domain.Status(r.URL.Query().Get("status")))
	default:
		orders, err = h.service.Orders(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantOrderResponses(orders))
}

func (h *RestaurantHandler) get(w http.ResponseWriter, r *http.Request, orderID int) {
	order, err := h.service.Order(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantOrderResponse(order))
}

func (h *RestaurantHandler) update(w http.ResponseWriter, r *http.Request, orderID int) {
	var req restaurantOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.Update(r.Context(), orderID, interfaces.RestaurantOrderCommand{
		FoodName: req.FoodName,
		Toppings: req.Toppings,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.logger.Error("order_update_failed", "Failed to update restaurant order", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantOrderResponse(order))
}

func (h *RestaurantHandler) delete(w http.ResponseWriter, r *http.Request, orderID int) {
	if err := h.service.Delete(r.Context(), orderID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *RestaurantHandler) updateStatus(w http.ResponseWriter, r *http.Request, orderID int) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, domain.Status(req.Status))
	if err != nil {
		h.logger.Error("status_update_failed", "Failed to update order status", "", map[string]interface{}{
			"order_id": orderID,
			"status":   req.Status,
		}, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantOrderResponse(order))
}

func (h *RestaurantHandler) transition(w http.ResponseWriter, r *http.Request, orderID int, step string) {
	var err error
	switch step {
	case "confirm":
		err = h.service.Confirm(r.Context(), orderID)
	case "prepare":
		err = h.service.SendToKitchen(r.Context(), orderID)
	case "ready":
		err = h.service.MarkReady(r.Context(), orderID)
	case "serve":
		err = h.service.Serve(r.Context(), orderID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := h.service.Order(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRestaurantOrderResponse(order))
}

func (h *RestaurantHandler) pay(w http.ResponseWriter, r *http.Request, orderID int) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.service.Pay(r.Context(), orderID, req.toCommand())
	if err != nil {
		h.logger.Error("payment_failed", "Failed to pay for restaurant order", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentResponse{
		ID:     payment.ID,
		Amount: payment.Amount,
		Method: payment.Method,
		PaidAt: payment.PaidAt,
	})
}
