// Package ordersapi собирает зависимости сервиса заказов и поднимает локальный HTTP-сервер.
// Те же компоненты использует Lambda-бинарник.
package ordersapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/waste-orders/internal/cache"
	"github.com/magabrotheeeer/waste-orders/internal/config"
	"github.com/magabrotheeeer/waste-orders/internal/events"
	"github.com/magabrotheeeer/waste-orders/internal/gateway"
	"github.com/magabrotheeeer/waste-orders/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/waste-orders/internal/lib/sl"
	"github.com/magabrotheeeer/waste-orders/internal/metrics"
	"github.com/magabrotheeeer/waste-orders/internal/migrations"
	"github.com/magabrotheeeer/waste-orders/internal/services/orders"
	"github.com/magabrotheeeer/waste-orders/internal/storage/postgres"
)

// Components — собранные зависимости обработчика заказов.
type Components struct {
	Storage  *postgres.Storage
	Registry *prometheus.Registry
	Service  *orders.Service
	Handler  *gateway.Handler

	redis *cache.Cache
	amqp  *amqp.Connection
	ch    *amqp.Channel
}

// Build подключается к базе и, если они настроены, к Redis и RabbitMQ,
// и собирает сервис и обработчик. Redis и RabbitMQ необязательны:
// при ошибке подключения сервис работает без кеша и без событий.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Components, error) {
	const op = "app.ordersapi.Build"

	st, err := postgres.New(ctx, cfg.StorageConnectionString, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c := &Components{Storage: st}

	if cfg.Postgres.MigrateOnStart {
		if err = migrations.Run(st.SQLDB()); err != nil {
			c.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("migrations applied")
	}

	var planCache orders.Cache = cache.Noop{}
	if cfg.Redis.Address != "" {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, plan cache disabled", sl.Err(err))
		} else {
			c.redis = redisCache
			planCache = redisCache
		}
	}

	var publisher orders.Publisher = events.Noop{}
	if cfg.RabbitMQ.URL != "" {
		if p, err := c.setupPublisher(cfg.RabbitMQ); err != nil {
			log.Warn("rabbitmq unavailable, order events disabled", sl.Err(err))
		} else {
			publisher = p
		}
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c.Service = orders.New(st, planCache, publisher, log, orders.Options{
		PlanTTL:            cfg.Redis.PlanTTL,
		EnforceTransitions: cfg.Orders.EnforceTransitions,
	})
	c.Handler = gateway.New(log, c.Service, gateway.Options{
		RequestTimeout:       cfg.HTTPServer.RequestTimeout,
		RedactInternalErrors: cfg.HTTPServer.RedactInternalErrors,
		Metrics:              metrics.New(c.Registry),
	})
	return c, nil
}

func (c *Components) setupPublisher(cfg config.RabbitMQ) (*events.Publisher, error) {
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.amqp, c.ch = conn, ch
	return events.NewPublisher(ch, cfg.Exchange), nil
}

// Close освобождает соединения.
func (c *Components) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.amqp != nil {
		_ = c.amqp.Close()
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.Storage != nil {
		c.Storage.Close()
	}
}
