// Command prune deletes orders older than the retention window. It is
// meant to be run out-of-band (e.g. from cron) against the same data
// directory the server uses.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/viduramedix/pos/internal/config"
	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/prune"
	"github.com/viduramedix/pos/internal/storage/jsonfile"
	"github.com/viduramedix/pos/pkg/logging"
)

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

	orders := jsonfile.Open[models.Order](store, "orders")
	pruner := prune.New(orders, cfg.RetentionMonths)

	res, err := pruner.Run(context.Background())
	if err != nil {
		slog.Error("pruning failed", "error", err)
		os.Exit(1)
	}
	slog.Info("pruning complete",
		"pruned", res.Pruned,
		"kept", res.Kept,
		"cutoff", res.Cutoff.Format(models.TimeFormat),
		"retention_months", cfg.RetentionMonths,
	)
}
