// Package response содержит типы JSON-ответов API заказов и вспомогательные
// функции их формирования. Ошибка всегда отдаётся как {"error": "..."}.
package response

import (
	"net/http"

	"github.com/magabrotheeeer/waste-orders/internal/models"
)

// HeaderAllowOrigin — CORS-заголовок, который несёт каждый ответ API.
const HeaderAllowOrigin = "Access-Control-Allow-Origin"

// AllowAnyOrigin разрешает браузеру читать ответ с любого источника.
func AllowAnyOrigin(w http.ResponseWriter) {
	w.Header().Set(HeaderAllowOrigin, "*")
}

// Тексты успешных ответов.
const (
	MsgOrderCreated = "Order created successfully"
	MsgOrderUpdated = "Order updated successfully"
)

// ErrorResponse — тело ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required fields"`
}

// CreatedResponse — ответ на оформление заказа.
type CreatedResponse struct {
	Success bool   `json:"success" example:"true"`
	OrderID int64  `json:"order_id" example:"42"`
	UserID  int64  `json:"user_id" example:"7"`
	Message string `json:"message" example:"Order created successfully"`
}

// UpdatedResponse — ответ на смену статуса.
type UpdatedResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Order updated successfully"`
}

// OrdersResponse — список заказов. Orders содержит []models.AdminOrder
// или []models.UserOrder в зависимости от режима запроса.
type OrdersResponse struct {
	Orders any `json:"orders"`
}

// SummaryResponse — сводка по заказам для администратора.
type SummaryResponse struct {
	Summary *models.OrderSummary `json:"summary"`
}

// PlansResponse — справочник тарифов.
type PlansResponse struct {
	Plans []models.Plan `json:"plans"`
}

// HealthResponse — ответ проверки состояния.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Created формирует ответ об успешном оформлении заказа.
func Created(orderID, userID int64) CreatedResponse {
	return CreatedResponse{
		Success: true,
		OrderID: orderID,
		UserID:  userID,
		Message: MsgOrderCreated,
	}
}

// Updated формирует ответ об успешной смене статуса.
func Updated() UpdatedResponse {
	return UpdatedResponse{Success: true, Message: MsgOrderUpdated}
}
