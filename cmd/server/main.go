package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/viduramedix/pos/internal/auth"
	"github.com/viduramedix/pos/internal/config"
	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/reports"
	"github.com/viduramedix/pos/internal/server"
	"github.com/viduramedix/pos/internal/service"
	"github.com/viduramedix/pos/internal/storage/jsonfile"
	"github.com/viduramedix/pos/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func main() {
	logging.Setup()
	cfg := config.Load()

	var opts []jsonfile.Option
	if cfg.LenientDecode {
		opts = append(opts, jsonfile.WithLenientDecode())
	}
	store, err := jsonfile.New(cfg.DataPath, opts...)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	slog.Info("storage initialized", "data_path", cfg.DataPath, "lenient_decode", cfg.LenientDecode)

	orders := jsonfile.Open[models.Order](store, "orders")
	menu := jsonfile.Open[models.MenuItem](store, "menu")
	tables := jsonfile.Open[models.Table](store, "tables")
	users := jsonfile.Open[models.User](store, "users")

	tableSvc := service.NewTableService(tables)
	orderSvc := service.NewOrderService(orders, menu, tableSvc, cfg.TaxRate)
	menuSvc := service.NewMenuService(menu)
	userSvc := service.NewUserService(users)
	reportSvc := reports.NewService(orders, menu)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)

	ctx := context.Background()
	if err := userSvc.EnsureDefaultAdmin(ctx); err != nil {
		slog.Error("failed to seed default admin", "error", err)
		os.Exit(1)
	}
	if err := tableSvc.EnsureDefaults(ctx); err != nil {
		slog.Error("failed to seed default tables", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, orderSvc, menuSvc, tableSvc, userSvc, reportSvc, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "address", addr, "tax_rate", cfg.TaxRate, "currency", cfg.Currency)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
