// Package orders содержит бизнес-логику заказов на вывоз мусора:
// оформление заказа, выдачу списков и смену статуса.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/waste-orders/internal/lib/planduration"
	"github.com/magabrotheeeer/waste-orders/internal/lib/sl"
	"github.com/magabrotheeeer/waste-orders/internal/models"
	"github.com/magabrotheeeer/waste-orders/internal/storage"
)

// Repository определяет методы хранилища заказов.
type Repository interface {
	// PlanByID возвращает тариф или storage.ErrPlanNotFound.
	PlanByID(ctx context.Context, id int64) (*models.Plan, error)
	// ListPlans возвращает справочник тарифов.
	ListPlans(ctx context.Context) ([]models.Plan, error)
	// CreateOrder атомарно обновляет клиента по email и вставляет заказ.
	CreateOrder(ctx context.Context, user models.User, order models.Order) (*models.CreatedOrder, error)
	// ListAllOrders возвращает все заказы, новые первыми.
	ListAllOrders(ctx context.Context) ([]models.AdminOrder, error)
	// ListUserOrders возвращает заказы клиента с необязательным фильтром по статусу.
	ListUserOrders(ctx context.Context, userID int64, status string) ([]models.UserOrder, error)
	// OrderStatus возвращает текущий статус или storage.ErrOrderNotFound.
	OrderStatus(ctx context.Context, id int64) (models.Status, error)
	// UpdateOrderStatus меняет статус; при непустом expected — только если текущий совпадает.
	UpdateOrderStatus(ctx context.Context, id int64, status, expected models.Status) error
	// Summary считает сводку по заказам.
	Summary(ctx context.Context) (*models.OrderSummary, error)
}

// Cache описывает методы для кеширования справочника тарифов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Publisher отправляет события заказов во внешние системы.
type Publisher interface {
	Publish(ctx context.Context, event models.OrderEvent) error
}

// Options настраивает поведение сервиса.
type Options struct {
	PlanTTL            time.Duration    // Время жизни тарифа в кеше
	EnforceTransitions bool             // Проверять переходы статусов по жизненному циклу
	Now                func() time.Time // Источник текущего времени, по умолчанию time.Now
}

// Service реализует бизнес-логику заказов.
type Service struct {
	repo     Repository
	cache    Cache
	events   Publisher
	log      *slog.Logger
	validate *validator.Validate
	opts     Options
}

// New создаёт новый экземпляр Service.
func New(repo Repository, cache Cache, events Publisher, log *slog.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PlanTTL <= 0 {
		opts.PlanTTL = time.Hour
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		events:   events,
		log:      log,
		validate: validator.New(),
		opts:     opts,
	}
}

// CreateOrder оформляет заказ: находит тариф, вычисляет срок и сохраняет
// клиента и заказ в статусе pending.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.CreateOrderResult, error) {
	const op = "services.orders.CreateOrder"
	log := s.log.With(slog.String("op", op))

	if err := s.validate.Struct(req); err != nil {
		log.Info("validation failed", slog.Any("fields", invalidFields(err)))
		return nil, validationError(MsgMissingFields)
	}

	plan, err := s.plan(ctx, int64(req.PlanID))
	if errors.Is(err, storage.ErrPlanNotFound) {
		log.Info("plan not found", slog.Int64("plan_id", int64(req.PlanID)))
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.opts.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := planduration.EndDate(start, plan.Duration)

	created, err := s.repo.CreateOrder(ctx,
		models.User{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		},
		models.Order{
			PlanID:    plan.ID,
			Address:   req.Address,
			Status:    models.StatusPending,
			StartDate: start,
			EndDate:   end,
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("order created",
		slog.Int64("order_id", created.OrderID),
		slog.Int64("user_id", created.UserID),
		slog.String("end_date", end.Format(models.DateLayout)))

	s.publish(ctx, log, models.OrderEvent{
		Type:    models.EventOrderCreated,
		OrderID: created.OrderID,
		UserID:  created.UserID,
		PlanID:  plan.ID,
		Status:  models.StatusPending,
		EndDate: end.Format(models.DateLayout),
	})

	return &models.CreateOrderResult{OrderID: created.OrderID, UserID: created.UserID}, nil
}

// ListAllOrders возвращает все заказы для администратора.
func (s *Service) ListAllOrders(ctx context.Context) ([]models.AdminOrder, error) {
	const op = "services.orders.ListAllOrders"

	orders, err := s.repo.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []models.AdminOrder{}
	}
	return orders, nil
}

// ListUserOrders возвращает заказы клиента; status, если задан, сравнивается точно.
func (s *Service) ListUserOrders(ctx context.Context, userID, status string) ([]models.UserOrder, error) {
	const op = "services.orders.ListUserOrders"

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, validationError(MsgUserIDRequired)
	}
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, validationError(MsgInvalidUserID)
	}

	orders, err := s.repo.ListUserOrders(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []models.UserOrder{}
	}
	return orders, nil
}

// UpdateOrderStatus меняет статус заказа. При включённой проверке переходов
// статус меняется только по жизненному циклу и только если его не успели изменить.
func (s *Service) UpdateOrderStatus(ctx context.Context, req models.UpdateOrderRequest) error {
	const op = "services.orders.UpdateOrderStatus"
	log := s.log.With(slog.String("op", op))

	if err := s.validate.Struct(req); err != nil {
		log.Info("validation failed", slog.Any("fields", invalidFields(err)))
		return validationError(MsgUpdateFields)
	}
	if !req.Status.Valid() {
		return validationError(MsgInvalidStatus)
	}

	id := int64(req.OrderID)
	var expected models.Status
	if s.opts.EnforceTransitions {
		current, err := s.repo.OrderStatus(ctx, id)
		if errors.Is(err, storage.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !current.CanTransitionTo(req.Status) {
			log.Info("transition rejected",
				slog.Int64("order_id", id),
				slog.String("from", string(current)),
				slog.String("to", string(req.Status)))
			return ErrTransitionNotAllowed
		}
		expected = current
	}

	err := s.repo.UpdateOrderStatus(ctx, id, req.Status, expected)
	if errors.Is(err, storage.ErrOrderNotFound) {
		if expected != "" {
			// Статус изменили между чтением и обновлением.
			return ErrTransitionNotAllowed
		}
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("order status updated", slog.Int64("order_id", id), slog.String("status", string(req.Status)))

	s.publish(ctx, log, models.OrderEvent{
		Type:    models.EventOrderStatusChanged,
		OrderID: id,
		Status:  req.Status,
	})
	return nil
}

// Summary возвращает сводку по заказам для администратора.
func (s *Service) Summary(ctx context.Context) (*models.OrderSummary, error) {
	const op = "services.orders.Summary"

	sum, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// ListPlans возвращает справочник тарифов.
func (s *Service) ListPlans(ctx context.Context) ([]models.Plan, error) {
	const op = "services.orders.ListPlans"

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if plans == nil {
		plans = []models.Plan{}
	}
	return plans, nil
}

// plan читает тариф из кеша, а при промахе — из хранилища.
// Ошибки кеша не прерывают запрос.
func (s *Service) plan(ctx context.Context, id int64) (*models.Plan, error) {
	cacheKey := fmt.Sprintf("plan:%d", id)

	var cached models.Plan
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	plan, err := s.repo.PlanByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, plan, s.opts.PlanTTL); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), sl.Err(err))
	}
	return plan, nil
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, event models.OrderEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn("failed to publish order event", slog.String("type", event.Type), sl.Err(err))
	}
}

func invalidFields(err error) []string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field()+":"+e.ActualTag())
	}
	return fields
}
