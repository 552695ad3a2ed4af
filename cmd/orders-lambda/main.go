// Команда orders-lambda запускает обработчик заказов в AWS Lambda за API Gateway.
// Конфигурация берётся из окружения, если CONFIG_PATH не задан.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/magabrotheeeer/waste-orders/internal/app/ordersapi"
	"github.com/magabrotheeeer/waste-orders/internal/config"
	"github.com/magabrotheeeer/waste-orders/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(os.Stdout, cfg.Env, cfg.LogLevel)

	components, err := ordersapi.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize handler", sl.Err(err))
		os.Exit(1)
	}
	defer components.Close()

	logger.Info("starting orders-lambda", slog.String("env", cfg.Env))
	lambda.Start(components.Handler.Handle)
}
