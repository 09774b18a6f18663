package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCustomers routes everything under /customers/{id}/...:
//
//	POST   /customers/{id}/orders                  place a new empty order
//	GET    /customers/{id}/orders                  list the customer's orders
//	DELETE /customers/{id}/orders/{orderID}        delete an order
//	POST   /customers/{id}/orders/{orderID}/items  add a line item
//	POST   /customers/{id}/orders/{orderID}/payment pay for an order
//	PUT    /customers/{id}/items/{itemID}          update a line item
func (h *OrderHandler) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "customers" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	customerID, err := strconv.Atoi(parts[1])
	if err != nil {
		http.Error(w, "Invalid customer id", http.StatusBadRequest)
		return
	}

	switch {
	case len(parts) == 3 && parts[2] == "orders":
		switch r.Method {
		case http.MethodPost:
			h.placeOrder(w, r, customerID)
		case http.MethodGet:
			h.listOrders(w, r, customerID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case len(parts) == 4 && parts[2] == "orders":
		orderID, err := strconv.Atoi(parts[3])
		if err != nil {
			http.Error(w, "Invalid order id", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.deleteOrder(w, r, customerID, orderID)

	case len(parts) == 5 && parts[2] == "orders":
		orderID, err := strconv.Atoi(parts[3])
		if err != nil {
			http.Error(w, "Invalid order id", http.StatusBadRequest)
			return
		}
		switch parts[4] {
		case "items":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h.addItem(w, r, customerID, orderID)
		case "payment":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h.pay(w, r, customerID, orderID)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}

	case len(parts) == 4 && parts[2] == "items":
		itemID, err := strconv.Atoi(parts[3])
		if err != nil {
			http.Error(w, "Invalid item id", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.updateItem(w, r, customerID, itemID)

	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request, customerID int) {
	order, err := h.service.PlaceOrder(r.Context(), customerID)
	if err != nil {
		h.logger.Error("order_placement_failed", "Failed to place order", "", nil, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request, customerID int) {
	orders, err := h.service.OrdersByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) addItem(w http.ResponseWriter, r *http.Request, customerID, orderID int) {
	var req LineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.FoodName) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "food_name is required"})
		return
	}

	order, err := h.service.AddLineItem(r.Context(), customerID, orderID, req.toCommand())
	if err != nil {
		h.logger.Error("item_add_failed", "Failed to add line item", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) updateItem(w http.ResponseWriter, r *http.Request, customerID, itemID int) {
	var req LineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.UpdateLineItem(r.Context(), customerID, itemID, req.toCommand())
	if err != nil {
		h.logger.Error("item_update_failed", "Failed to update line item", "", map[string]interface{}{
			"item_id": itemID,
		}, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request, customerID, orderID int) {
	if err := h.service.DeleteOrder(r.Context(), customerID, orderID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) pay(w http.ResponseWriter, r *http.Request, customerID, orderID int) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.service.Pay(r.Context(), customerID, orderID, req.toCommand())
	if err != nil {
		h.logger.Error("payment_failed", "Failed to pay for order", "", map[string]interface{}{
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
