package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/reports"
	"github.com/viduramedix/pos/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.jwt.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		},
	})
}

type orderRequest struct {
	TableID  string             `json:"table_id"`
	Items    []models.OrderItem `json:"items"`
	Discount decimal.Decimal    `json:"discount"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []models.Order
		err    error
	)
	if r.URL.Query().Get("status") == string(models.OrderActive) {
		orders, err = s.orders.ListActive(r.Context())
	} else {
		orders, err = s.orders.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := s.orders.Create(r.Context(), req.TableID, req.Items, req.Discount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleUpdateOrderItems(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := s.orders.UpdateItems(r.Context(), r.PathValue("id"), req.Items, req.Discount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCompletePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := s.orders.CompletePayment(r.Context(), r.PathValue("id"), req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleRefundOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Refund(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleListMenu(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("available") == "true" {
		grouped, categories, err := s.menu.AvailableByCategory(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"categories": categories,
			"items":      grouped,
		})
		return
	}
	items, err := s.menu.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req service.MenuItemInput
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := s.menu.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req service.MenuItemInput
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := s.menu.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := s.menu.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.tables.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// handleConfig exposes the display settings a client needs to render
// amounts the same way the server does.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"currency": s.cfg.Currency,
		"tax_rate": s.cfg.TaxRate,
	})
}

// reportResponse decorates a report with its server-side formatted
// revenue so clients need not know the currency rules.
type reportResponse struct {
	*reports.Report
	FormattedRevenue string `json:"formatted_revenue"`
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		Report:           report,
		FormattedRevenue: s.cfg.FormatCurrency(report.Revenue),
	})
}

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.Summary(r.Context(),
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		Report:           report,
		FormattedRevenue: s.cfg.FormatCurrency(report.Revenue),
	})
}
