// Package gateway реализует обработчик событий API Gateway для заказов на вывоз мусора.
//
// Один обработчик обслуживает все методы ресурса /orders: OPTIONS отвечает на
// CORS preflight, POST оформляет заказ, GET выдаёт списки, PUT меняет статус.
// Ошибки сервиса переводятся в HTTP-коды, тело ошибки всегда {"error": "..."}.
package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/waste-orders/internal/http/response"
	"github.com/magabrotheeeer/waste-orders/internal/lib/sl"
	"github.com/magabrotheeeer/waste-orders/internal/models"
	"github.com/magabrotheeeer/waste-orders/internal/services/orders"
)

const (
	allowMethods = "GET, POST, PUT, OPTIONS"
	allowHeaders = "Content-Type, X-User-Id"

	// HeaderUserID — заголовок, из которого берётся user_id, если его нет в query.
	HeaderUserID = "X-User-Id"

	msgMethodNotAllowed     = "Method not allowed"
	msgPlanNotFound         = "Plan not found"
	msgOrderNotFound        = "Order not found"
	msgTransitionNotAllowed = "Status transition not allowed"
	msgServerError          = "Server error"

	// metricsOtherMethod — метка метрик для всех неподдерживаемых методов.
	metricsOtherMethod = "OTHER"
)

// Service описывает бизнес-логику заказов, которую вызывает обработчик.
type Service interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.CreateOrderResult, error)
	ListAllOrders(ctx context.Context) ([]models.AdminOrder, error)
	ListUserOrders(ctx context.Context, userID, status string) ([]models.UserOrder, error)
	UpdateOrderStatus(ctx context.Context, req models.UpdateOrderRequest) error
	Summary(ctx context.Context) (*models.OrderSummary, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
}

// Metrics учитывает обработанные запросы.
type Metrics interface {
	ObserveRequest(method string, code int, elapsed time.Duration)
}

// Options настраивает обработчик.
type Options struct {
	RequestTimeout       time.Duration // Ограничение времени на запрос, 0 — без ограничения
	RedactInternalErrors bool          // Не показывать клиенту текст внутренних ошибок
	Metrics              Metrics       // Может быть nil
}

// Handler обрабатывает события API Gateway.
type Handler struct {
	log     *slog.Logger
	service Service
	opts    Options
}

// New создаёт Handler.
func New(log *slog.Logger, service Service, opts Options) *Handler {
	return &Handler{
		log:     log,
		service: service,
		opts:    opts,
	}
}

// Handle — точка входа Lambda. Ошибка транспорта не возвращается никогда:
// любой сбой, включая панику, превращается в ответ 500.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	const op = "gateway.Handle"
	start := time.Now()
	method := strings.ToUpper(req.HTTPMethod)
	if method == "" {
		method = http.MethodGet
	}

	log := h.log.With(
		slog.String("op", op),
		slog.String("method", method),
		slog.String("request_id", req.RequestContext.RequestID),
	)

	defer func() {
		if rec := recover(); rec != nil {
			resp = h.serverError(log, fmt.Errorf("panic: %v", rec))
			err = nil
		}
		if h.opts.Metrics != nil {
			h.opts.Metrics.ObserveRequest(metricsMethod(method), resp.StatusCode, time.Since(start))
		}
		log.Debug("request handled",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)))
	}()

	if h.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.RequestTimeout)
		defer cancel()
	}

	switch method {
	case http.MethodOptions:
		return preflight(), nil
	case http.MethodPost:
		return h.createOrder(ctx, log, req), nil
	case http.MethodGet:
		return h.listOrders(ctx, log, req), nil
	case http.MethodPut:
		return h.updateOrder(ctx, log, req), nil
	default:
		log.Info("method not allowed")
		return jsonResponse(http.StatusMethodNotAllowed, response.Error(msgMethodNotAllowed)), nil
	}
}

// createOrder godoc
// @Summary Оформить заказ
// @Description Создаёт или обновляет клиента по email и оформляет заказ в статусе pending. plan_id принимается числом или строкой.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.CreateOrderRequest true "Данные клиента и тариф"
// @Success 201 {object} response.CreatedResponse
// @Failure 400 {object} response.ErrorResponse "Не заполнены обязательные поля"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/v1/orders [post]
func (h *Handler) createOrder(ctx context.Context, log *slog.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body models.CreateOrderRequest
	if err := decodeBody(req, &body); err != nil {
		return h.serverError(log, err)
	}

	res, err := h.service.CreateOrder(ctx, body)
	if err != nil {
		return h.errorResponse(log, err)
	}
	return jsonResponse(http.StatusCreated, response.Created(res.OrderID, res.UserID))
}

// listOrders godoc
// @Summary Список заказов
// @Description admin=true — все заказы с данными клиентов, новые первыми; admin=true&summary=true — сводка; plans=true — справочник тарифов. Иначе нужен user_id (query или заголовок X-User-Id), status фильтрует точно.
// @Tags Orders
// @Produce  json
// @Param admin query string false "true для режима администратора"
// @Param summary query string false "true для сводки (только с admin=true)"
// @Param plans query string false "true для справочника тарифов"
// @Param user_id query string false "Идентификатор клиента"
// @Param status query string false "Фильтр по статусу" Enums(pending, active, completed, cancelled)
// @Param X-User-Id header string false "Идентификатор клиента, если не передан в query"
// @Success 200 {object} response.OrdersResponse
// @Success 200 {object} response.SummaryResponse
// @Success 200 {object} response.PlansResponse
// @Failure 400 {object} response.ErrorResponse "Не передан user_id"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/v1/orders [get]
func (h *Handler) listOrders(ctx context.Context, log *slog.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	q := req.QueryStringParameters
	admin := q["admin"] == "true"

	switch {
	case q["plans"] == "true":
		plans, err := h.service.ListPlans(ctx)
		if err != nil {
			return h.errorResponse(log, err)
		}
		return jsonResponse(http.StatusOK, response.PlansResponse{Plans: plans})

	case admin && q["summary"] == "true":
		sum, err := h.service.Summary(ctx)
		if err != nil {
			return h.errorResponse(log, err)
		}
		return jsonResponse(http.StatusOK, response.SummaryResponse{Summary: sum})

	case admin:
		list, err := h.service.ListAllOrders(ctx)
		if err != nil {
			return h.errorResponse(log, err)
		}
		return jsonResponse(http.StatusOK, response.OrdersResponse{Orders: list})
	}

	userID := q["user_id"]
	if userID == "" {
		userID = header(req.Headers, HeaderUserID)
	}
	list, err := h.service.ListUserOrders(ctx, userID, q["status"])
	if err != nil {
		return h.errorResponse(log, err)
	}
	return jsonResponse(http.StatusOK, response.OrdersResponse{Orders: list})
}

// updateOrder godoc
// @Summary Сменить статус заказа
// @Description Устанавливает статус заказа и время обновления.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.UpdateOrderRequest true "Заказ и новый статус"
// @Success 200 {object} response.UpdatedResponse
// @Failure 400 {object} response.ErrorResponse "Нет order_id или status, либо статус неизвестен"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Переход статуса запрещён"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/v1/orders [put]
func (h *Handler) updateOrder(ctx context.Context, log *slog.Logger, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body models.UpdateOrderRequest
	if err := decodeBody(req, &body); err != nil {
		return h.serverError(log, err)
	}

	if err := h.service.UpdateOrderStatus(ctx, body); err != nil {
		return h.errorResponse(log, err)
	}
	return jsonResponse(http.StatusOK, response.Updated())
}

// errorResponse переводит ошибку сервиса в ответ.
func (h *Handler) errorResponse(log *slog.Logger, err error) events.APIGatewayProxyResponse {
	var vErr *orders.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Info("invalid request", slog.String("reason", vErr.Msg))
		return jsonResponse(http.StatusBadRequest, response.Error(vErr.Msg))
	case errors.Is(err, orders.ErrPlanNotFound):
		return jsonResponse(http.StatusNotFound, response.Error(msgPlanNotFound))
	case errors.Is(err, orders.ErrOrderNotFound):
		return jsonResponse(http.StatusNotFound, response.Error(msgOrderNotFound))
	case errors.Is(err, orders.ErrTransitionNotAllowed):
		return jsonResponse(http.StatusConflict, response.Error(msgTransitionNotAllowed))
	default:
		return h.serverError(log, err)
	}
}

func (h *Handler) serverError(log *slog.Logger, err error) events.APIGatewayProxyResponse {
	log.Error("request failed", sl.Err(err))
	msg := msgServerError
	if !h.opts.RedactInternalErrors {
		msg = msgServerError + ": " + err.Error()
	}
	return jsonResponse(http.StatusInternalServerError, response.Error(msg))
}

// decodeBody разбирает JSON-тело запроса. Пустое тело считается пустым объектом.
func decodeBody(req events.APIGatewayProxyRequest, v any) error {
	body := req.Body
	if req.IsBase64Encoded && body != "" {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return fmt.Errorf("decode base64 body: %w", err)
		}
		body = string(raw)
	}
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}
	if err := render.DecodeJSON(strings.NewReader(body), v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func metricsMethod(method string) string {
	switch method {
	case http.MethodOptions, http.MethodPost, http.MethodGet, http.MethodPut:
		return method
	default:
		return metricsOtherMethod
	}
}

func preflight() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			response.HeaderAllowOrigin:     "*",
			"Access-Control-Allow-Methods": allowMethods,
			"Access-Control-Allow-Headers": allowHeaders,
		},
	}
}

func jsonResponse(code int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		code = http.StatusInternalServerError
		data = []byte(`{"error":"` + msgServerError + `"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers: map[string]string{
			response.HeaderAllowOrigin: "*",
			"Content-Type":             "application/json",
		},
		Body: string(data),
	}
}
