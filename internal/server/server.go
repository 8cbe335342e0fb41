// Package server exposes the services over a small JSON HTTP API.
// It is thin glue: every route decodes a request, calls one service
// method, and encodes the result.
package server

import (
	"errors"
	"net/http"

	"github.com/viduramedix/pos/internal/auth"
	"github.com/viduramedix/pos/internal/config"
	"github.com/viduramedix/pos/internal/middleware"
	"github.com/viduramedix/pos/internal/reports"
	"github.com/viduramedix/pos/internal/service"
	"github.com/viduramedix/pos/internal/storage"
	"github.com/viduramedix/pos/pkg/metrics"
)

// Server routes HTTP requests to the services.
type Server struct {
	cfg     config.Config
	orders  *service.OrderService
	menu    *service.MenuService
	tables  *service.TableService
	users   *service.UserService
	reports *reports.Service
	jwt     *auth.JWTManager
}

func New(cfg config.Config, orders *service.OrderService, menu *service.MenuService, tables *service.TableService, users *service.UserService, reports *reports.Service, jwt *auth.JWTManager) *Server {
	return &Server{
		cfg:     cfg,
		orders:  orders,
		menu:    menu,
		tables:  tables,
		users:   users,
		reports: reports,
		jwt:     jwt,
	}
}

// Handler builds the route table. Everything under /api except login
// requires a valid session token.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/orders", s.handleListOrders)
	api.HandleFunc("POST /api/orders", s.handleCreateOrder)
	api.HandleFunc("GET /api/orders/{id}", s.handleGetOrder)
	api.HandleFunc("PUT /api/orders/{id}/items", s.handleUpdateOrderItems)
	api.HandleFunc("POST /api/orders/{id}/payment", s.handleCompletePayment)
	api.HandleFunc("POST /api/orders/{id}/cancel", s.handleCancelOrder)
	api.HandleFunc("POST /api/orders/{id}/refund", s.handleRefundOrder)
	api.HandleFunc("GET /api/menu", s.handleListMenu)
	api.HandleFunc("POST /api/menu", s.handleCreateMenuItem)
	api.HandleFunc("PUT /api/menu/{id}", s.handleUpdateMenuItem)
	api.HandleFunc("DELETE /api/menu/{id}", s.handleDeleteMenuItem)
	api.HandleFunc("GET /api/tables", s.handleListTables)
	api.HandleFunc("GET /api/config", s.handleConfig)
	api.HandleFunc("GET /api/reports/daily", s.handleDailyReport)
	api.HandleFunc("GET /api/reports/summary", s.handleSummaryReport)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.Handle("/api/", middleware.RequireAuth(s.jwt, api))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.Logging(mux)
}

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrMenuItemNotFound),
		errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrCodeTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrOrderNotActive),
		errors.Is(err, service.ErrOrderNotRefundable),
		errors.Is(err, storage.ErrStaleWrite):
		return http.StatusConflict
	case errors.Is(err, service.ErrPaymentMethodRequired),
		errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrPriceNotPositive),
		errors.Is(err, service.ErrNegativeStock),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordNoUpper),
		errors.Is(err, auth.ErrPasswordNoLower),
		errors.Is(err, auth.ErrPasswordNoDigit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
