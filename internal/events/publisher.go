// Package events публикует события жизненного цикла заказов в RabbitMQ.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/waste-orders/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/waste-orders/internal/models"
)

// Publisher отправляет события заказов в exchange; тип события служит ключом маршрутизации.
type Publisher struct {
	ch       rabbitmq.Channel
	exchange string
	now      func() time.Time
}

// NewPublisher создаёт Publisher поверх канала брокера.
func NewPublisher(ch rabbitmq.Channel, exchange string) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}
}

// Publish дополняет событие идентификатором и временем и публикует его.
func (p *Publisher) Publish(ctx context.Context, event models.OrderEvent) error {
	const op = "events.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, event.Type, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Noop отбрасывает события. Используется, когда брокер не настроен.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, models.OrderEvent) error { return nil }
