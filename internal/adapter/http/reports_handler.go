package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type ReportsHandler struct {
	service interfaces.ReportsService
	logger  logger.Logger
}

func NewReportsHandler(service interfaces.ReportsService, logger logger.Logger) *ReportsHandler {
	return &ReportsHandler{
		service: service,
		logger:  logger,
	}
}

// HandleReports routes everything under /reports:
//
//	GET /reports/weekly-orders?date=2025-01-13       both channels for the ISO week of date
//	GET /reports/weekly-sales?date=2025-01-13        zero-filled 7-day trend
//	GET /reports/monthly-sales?month=1&year=2025     zero-filled monthly trend
//	GET /reports/menu-performance                    dishes ranked by quantity sold
//	GET /reports/daily-total?date=2025-01-13         combined revenue for a day
//	GET /reports/orders                              combined both-channel listing
//	GET /reports/allocations/orders/{id}             split a customer order's revenue
//	GET /reports/allocations/payments/{id}           split a walk-in payment's revenue
func (h *ReportsHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "reports" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "weekly-orders":
		h.weeklyOrders(w, r)
	case len(parts) == 2 && parts[1] == "weekly-sales":
		h.weeklySales(w, r)
	case len(parts) == 2 && parts[1] == "monthly-sales":
		h.monthlySales(w, r)
	case len(parts) == 2 && parts[1] == "menu-performance":
		h.menuPerformance(w, r)
	case len(parts) == 2 && parts[1] == "daily-total":
		h.dailyTotal(w, r)
	case len(parts) == 2 && parts[1] == "orders":
		h.allOrders(w, r)
	case len(parts) == 4 && parts[1] == "allocations":
		h.allocation(w, r, parts[2], parts[3])
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func parseDateParam(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (h *ReportsHandler) weeklyOrders(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "date must be formatted as YYYY-MM-DD"})
		return
	}

	week, err := h.service.OrdersByWeek(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"week_start":        week.WeekStart.Format("2006-01-02"),
		"week_end":          week.WeekEnd.Format("2006-01-02"),
		"customer_orders":   toOrderResponses(week.CustomerOrders),
		"restaurant_orders": toRestaurantOrderResponses(week.RestaurantOrders),
	})
}

type dailySalesResponse struct {
	Date            string          `json:"date"`
	CustomerSales   decimal.Decimal `json:"customer_sales"`
	RestaurantSales decimal.Decimal `json:"restaurant_sales"`
	TotalSales      decimal.Decimal `json:"total_sales"`
}

func toDailySalesResponses(trend []interfaces.DailySales) []dailySalesResponse {
	result := make([]dailySalesResponse, len(trend))
	for i, day := range trend {
		result[i] = dailySalesResponse{
			Date:            day.Date.Format("2006-01-02"),
			CustomerSales:   day.CustomerSales,
			RestaurantSales: day.RestaurantSales,
			TotalSales:      day.TotalSales,
		}
	}
	return result
}

func (h *ReportsHandler) weeklySales(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "date must be formatted as YYYY-MM-DD"})
		return
	}

	trend, err := h.service.CompareWeeklySales(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySalesResponses(trend))
}

func (h *ReportsHandler) monthlySales(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "month must be a number between 1 and 12"})
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "year must be a number"})
		return
	}

	trend, err := h.service.CompareMonthlySales(r.Context(), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySalesResponses(trend))
}

func (h *ReportsHandler) menuPerformance(w http.ResponseWriter, r *http.Request) {
	performance, err := h.service.MenuPerformance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]map[string]interface{}, len(performance))
	for i, entry := range performance {
		resp[i] = map[string]interface{}{
			"food_name":     entry.FoodName,
			"quantity_sold": entry.QuantitySold,
			"revenue":       entry.Revenue,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportsHandler) dailyTotal(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "date must be formatted as YYYY-MM-DD"})
		return
	}

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	total, err := h.service.DailyTotal(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  from.Format("2006-01-02"),
		"total": total,
	})
}

func (h *ReportsHandler) allOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.AllOrders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		resp[i] = map[string]interface{}{
			"order_id":     row.OrderID,
			"channel":      row.Channel,
			"date":         row.Date.Format("2006-01-02"),
			"total_amount": row.TotalAmount,
			"items":        row.Items,
			"status":       row.Status,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportsHandler) allocation(w http.ResponseWriter, r *http.Request, kind, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	switch kind {
	case "orders":
		allocation, err := h.service.AllocateCustomerOrder(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAllocationResponse(allocation))
	case "payments":
		allocation, err := h.service.AllocateRestaurantPayment(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAllocationResponse(allocation))
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
