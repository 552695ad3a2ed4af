// Package main Waste Orders API
//
// @title           Waste Orders API
// @version         1.0
// @description     API заказов на вывоз мусора: оформление, списки для клиента и администратора, смена статуса

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/waste-orders/internal/app/ordersapi"
	"github.com/magabrotheeeer/waste-orders/internal/config"
	"github.com/magabrotheeeer/waste-orders/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(os.Stdout, cfg.Env, cfg.LogLevel)

	logger.Info("starting orders-api", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := ordersapi.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("orders-api stopped gracefully")
}
