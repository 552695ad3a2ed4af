// Package adapter позволяет обслуживать обработчик событий API Gateway
// обычным HTTP-сервером: запрос превращается в событие, ответ события — в HTTP-ответ.
package adapter

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/waste-orders/internal/http/response"
	"github.com/magabrotheeeer/waste-orders/internal/lib/sl"
)

// MaxBodyBytes ограничивает размер тела запроса.
const MaxBodyBytes = 1 << 20

// EventHandler — обработчик события API Gateway.
type EventHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// Handler адаптирует EventHandler к http.Handler.
type Handler struct {
	log   *slog.Logger
	inner EventHandler
}

// New создаёт Handler.
func New(log *slog.Logger, inner EventHandler) *Handler {
	return &Handler{log: log, inner: inner}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "http.adapter"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		response.AllowAnyOrigin(w)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	resp, err := h.inner.Handle(r.Context(), ToEvent(r, body))
	if err != nil {
		log.Error("event handler failed", sl.Err(err))
		response.AllowAnyOrigin(w)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Server error"))
		return
	}

	out := []byte(resp.Body)
	if resp.IsBase64Encoded {
		if out, err = base64.StdEncoding.DecodeString(resp.Body); err != nil {
			log.Error("failed to decode response body", sl.Err(err))
			response.AllowAnyOrigin(w)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Server error"))
			return
		}
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(out); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}

// ToEvent строит событие API Gateway из HTTP-запроса и уже прочитанного тела.
// Для одиночных параметров и заголовков берётся первое значение.
func ToEvent(r *http.Request, body []byte) events.APIGatewayProxyRequest {
	query := r.URL.Query()
	params := make(map[string]string, len(query))
	for k, vs := range query {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k, vs := range r.Header {
		if len(vs) > 0 {
			headers[k] = vs[0]
		}
	}

	return events.APIGatewayProxyRequest{
		Resource:                        r.URL.Path,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         headers,
		MultiValueHeaders:               r.Header,
		QueryStringParameters:           params,
		MultiValueQueryStringParameters: query,
		Body:                            string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  middleware.GetReqID(r.Context()),
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Identity: events.APIGatewayRequestIdentity{
				SourceIP:  r.RemoteAddr,
				UserAgent: r.UserAgent(),
			},
		},
	}
}
