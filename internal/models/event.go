package models

import "time"

// Типы событий заказа, они же ключи маршрутизации в брокере.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent — сообщение о изменении заказа, публикуемое в брокер.
type OrderEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	UserID     int64     `json:"user_id,omitempty"`
	PlanID     int64     `json:"plan_id,omitempty"`
	Status     Status    `json:"status"`
	EndDate    string    `json:"end_date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
