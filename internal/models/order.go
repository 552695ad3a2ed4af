package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout — формат ISO-8601 для полей типа DATE.
const DateLayout = "2006-01-02"

// Order представляет заказ на вывоз мусора, используемый в бизнес-логике и хранилище.
// EndDate вычисляется при создании из срока тарифа и дальше не пересчитывается.
type Order struct {
	ID        int64
	UserID    int64
	PlanID    int64
	Address   string // Адрес на момент оформления, не зависит от текущего адреса клиента
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// AdminOrder — строка административного списка заказов с данными клиента и тарифа.
type AdminOrder struct {
	ID        int64   `json:"id"`
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
	UserPhone *string `json:"user_phone"`
	Address   string  `json:"address"`
	PlanName  string  `json:"plan_name"`
	Price     int     `json:"price"`
	Status    Status  `json:"status"`
	CreatedAt *string `json:"created_at"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UserOrder — заказ в списке конкретного клиента, без его персональных данных.
type UserOrder struct {
	ID        int64   `json:"id"`
	Address   string  `json:"address"`
	PlanName  string  `json:"plan_name"`
	Price     int     `json:"price"`
	Status    Status  `json:"status"`
	CreatedAt *string `json:"created_at"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// OrderSummary — сводка по заказам для панели администратора.
// Revenue суммирует цены тарифов всех заказов, кроме отменённых.
type OrderSummary struct {
	Total     int   `json:"total"`
	Pending   int   `json:"pending"`
	Active    int   `json:"active"`
	Completed int   `json:"completed"`
	Cancelled int   `json:"cancelled"`
	Revenue   int64 `json:"revenue"`
}

// CreatedOrder — результат вставки заказа в хранилище.
type CreatedOrder struct {
	OrderID   int64
	UserID    int64
	CreatedAt time.Time
}

// FlexID — целочисленный идентификатор, который в JSON может прийти
// как числом, так и строкой ("1"): веб-форма отправляет plan_id строкой.
type FlexID int64

// UnmarshalJSON разбирает число, строку с числом или null.
// Дробная запись допускается, только если значение целое.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", raw, err)
		}
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*id = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		*id = FlexID(n)
		return nil
	}
	// 5.0 и 5e0 тоже означают 5.
	f, ferr := strconv.ParseFloat(raw, 64)
	if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return fmt.Errorf("invalid id %s: %w", raw, err)
	}
	*id = FlexID(int64(f))
	return nil
}

// CreateOrderRequest используется для приёма данных нового заказа из JSON-запроса.
type CreateOrderRequest struct {
	Name    string  `json:"name" validate:"required"`    // Имя клиента
	Email   string  `json:"email" validate:"required"`   // Email клиента
	Phone   *string `json:"phone,omitempty"`             // Телефон (опционально)
	Address string  `json:"address" validate:"required"` // Адрес вывоза
	PlanID  FlexID  `json:"plan_id" validate:"required"` // Идентификатор тарифа
}

// UpdateOrderRequest используется для приёма нового статуса заказа.
type UpdateOrderRequest struct {
	OrderID FlexID `json:"order_id" validate:"required"`
	Status  Status `json:"status" validate:"required"`
}

// CreateOrderResult возвращается сервисом после успешного оформления заказа.
type CreateOrderResult struct {
	OrderID int64
	UserID  int64
}

// FormatDate возвращает дату в формате ISO-8601 или nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

// FormatTimestamp возвращает метку времени в формате RFC 3339 или nil.
func FormatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}
