package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/waste-orders/internal/models"
	"github.com/magabrotheeeer/waste-orders/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) PlanByID(ctx context.Context, id int64) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *RepoMock) ListPlans(ctx context.Context) ([]models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plan), args.Error(1)
}
func (m *RepoMock) CreateOrder(ctx context.Context, user models.User, order models.Order) (*models.CreatedOrder, error) {
	args := m.Called(ctx, user, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatedOrder), args.Error(1)
}
func (m *RepoMock) ListAllOrders(ctx context.Context) ([]models.AdminOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdminOrder), args.Error(1)
}
func (m *RepoMock) ListUserOrders(ctx context.Context, userID int64, status string) ([]models.UserOrder, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserOrder), args.Error(1)
}
func (m *RepoMock) OrderStatus(ctx context.Context, id int64) (models.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Status), args.Error(1)
}
func (m *RepoMock) UpdateOrderStatus(ctx context.Context, id int64, status, expected models.Status) error {
	return m.Called(ctx, id, status, expected).Error(0)
}
func (m *RepoMock) Summary(ctx context.Context) (*models.OrderSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderSummary), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, event models.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var fixedNow = time.Date(2025, 3, 14, 18, 30, 0, 0, time.Local)

func newTestService(r *RepoMock, c *CacheMock, p *PublisherMock, enforce bool) *Service {
	return New(r, c, p, newNoopLogger(), Options{
		PlanTTL:            time.Hour,
		EnforceTransitions: enforce,
		Now:                func() time.Time { return fixedNow },
	})
}

func validCreateRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		Name:    "Анна",
		Email:   "anna@example.com",
		Address: "ул. Мира, 1",
		PlanID:  2,
	}
}

func TestService_CreateOrder(t *testing.T) {
	monthly := &models.Plan{ID: 2, Name: "Месячная подписка", Price: 2990, Duration: "1 месяц"}
	wantStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		req        func() models.CreateOrderRequest
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		want       *models.CreateOrderResult
		wantErr    error
		wantMsg    string
	}{
		{
			name: "plan from storage is cached and order saved",
			req:  validCreateRequest,
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				c.On("Get", mock.Anything, "plan:2", mock.Anything).Return(false, nil).Once()
				r.On("PlanByID", mock.Anything, int64(2)).Return(monthly, nil).Once()
				c.On("Set", mock.Anything, "plan:2", monthly, time.Hour).Return(nil).Once()
				r.On("CreateOrder", mock.Anything,
					models.User{Name: "Анна", Email: "anna@example.com", Address: "ул. Мира, 1"},
					mock.MatchedBy(func(o models.Order) bool {
						return o.PlanID == 2 &&
							o.Status == models.StatusPending &&
							o.Address == "ул. Мира, 1" &&
							o.StartDate.Equal(wantStart) &&
							o.EndDate.Format(models.DateLayout) == "2025-04-13"
					})).Return(&models.CreatedOrder{OrderID: 10, UserID: 7}, nil).Once()
				p.On("Publish", mock.Anything, mock.MatchedBy(func(e models.OrderEvent) bool {
					return e.Type == models.EventOrderCreated && e.OrderID == 10 && e.UserID == 7 &&
						e.PlanID == 2 && e.EndDate == "2025-04-13"
				})).Return(nil).Once()
			},
			want: &models.CreateOrderResult{OrderID: 10, UserID: 7},
		},
		{
			name: "cached plan skips storage lookup",
			req:  validCreateRequest,
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				c.On("Get", mock.Anything, "plan:2", mock.Anything).
					Run(func(args mock.Arguments) {
						*args.Get(2).(*models.Plan) = *monthly
					}).Return(true, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(&models.CreatedOrder{OrderID: 11, UserID: 7}, nil).Once()
				p.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
			},
			want: &models.CreateOrderResult{OrderID: 11, UserID: 7},
		},
		{
			name: "cache failure falls back to storage",
			req:  validCreateRequest,
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				c.On("Get", mock.Anything, "plan:2", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("PlanByID", mock.Anything, int64(2)).Return(monthly, nil).Once()
				c.On("Set", mock.Anything, "plan:2", monthly, time.Hour).Return(errors.New("redis down")).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(&models.CreatedOrder{OrderID: 12, UserID: 8}, nil).Once()
				p.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
			want: &models.CreateOrderResult{OrderID: 12, UserID: 8},
		},
		{
			name: "missing email",
			req: func() models.CreateOrderRequest {
				req := validCreateRequest()
				req.Email = ""
				return req
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantMsg:    MsgMissingFields,
		},
		{
			name: "missing plan id",
			req: func() models.CreateOrderRequest {
				req := validCreateRequest()
				req.PlanID = 0
				return req
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantMsg:    MsgMissingFields,
		},
		{
			name: "unknown plan",
			req: func() models.CreateOrderRequest {
				req := validCreateRequest()
				req.PlanID = 99
				return req
			},
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				c.On("Get", mock.Anything, "plan:99", mock.Anything).Return(false, nil).Once()
				r.On("PlanByID", mock.Anything, int64(99)).
					Return(nil, fmt.Errorf("storage.postgres.PlanByID: %w", storage.ErrPlanNotFound)).Once()
			},
			wantErr: ErrPlanNotFound,
		},
		{
			name: "storage failure",
			req:  validCreateRequest,
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				c.On("Get", mock.Anything, "plan:2", mock.Anything).Return(true, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("connection reset")).Once()
			},
			wantMsg: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c, p := new(RepoMock), new(CacheMock), new(PublisherMock)
			tt.setupMocks(r, c, p)
			svc := newTestService(r, c, p, false)

			got, err := svc.CreateOrder(context.Background(), tt.req())

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.wantMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			r.AssertExpectations(t)
			c.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestService_CreateOrderUnknownPlanDoesNotTouchUsers(t *testing.T) {
	r, c, p := new(RepoMock), new(CacheMock), new(PublisherMock)
	c.On("Get", mock.Anything, "plan:5", mock.Anything).Return(false, nil)
	r.On("PlanByID", mock.Anything, int64(5)).Return(nil, storage.ErrPlanNotFound)
	svc := newTestService(r, c, p, false)

	req := validCreateRequest()
	req.PlanID = 5
	_, err := svc.CreateOrder(context.Background(), req)
	require.ErrorIs(t, err, ErrPlanNotFound)

	r.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_ListUserOrders(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		status     string
		setupMocks func(r *RepoMock)
		wantLen    int
		wantMsg    string
	}{
		{
			name:   "all statuses",
			userID: "7",
			setupMocks: func(r *RepoMock) {
				r.On("ListUserOrders", mock.Anything, int64(7), "").
					Return([]models.UserOrder{{ID: 1}, {ID: 2}}, nil).Once()
			},
			wantLen: 2,
		},
		{
			name:   "status filter passed through",
			userID: " 7 ",
			status: "active",
			setupMocks: func(r *RepoMock) {
				r.On("ListUserOrders", mock.Anything, int64(7), "active").
					Return([]models.UserOrder{{ID: 2, Status: models.StatusActive}}, nil).Once()
			},
			wantLen: 1,
		},
		{
			name:   "nil result becomes empty list",
			userID: "8",
			setupMocks: func(r *RepoMock) {
				r.On("ListUserOrders", mock.Anything, int64(8), "").Return(nil, nil).Once()
			},
			wantLen: 0,
		},
		{
			name:       "missing user id",
			setupMocks: func(_ *RepoMock) {},
			wantMsg:    MsgUserIDRequired,
		},
		{
			name:       "non numeric user id",
			userID:     "abc",
			setupMocks: func(_ *RepoMock) {},
			wantMsg:    MsgInvalidUserID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(RepoMock)
			tt.setupMocks(r)
			svc := newTestService(r, new(CacheMock), new(PublisherMock), false)

			got, err := svc.ListUserOrders(context.Background(), tt.userID, tt.status)
			if tt.wantMsg != "" {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantMsg, vErr.Msg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Len(t, got, tt.wantLen)
			r.AssertExpectations(t)
		})
	}
}

func TestService_ListAllOrders(t *testing.T) {
	r := new(RepoMock)
	r.On("ListAllOrders", mock.Anything).Return(nil, nil).Once()
	svc := newTestService(r, new(CacheMock), new(PublisherMock), false)

	got, err := svc.ListAllOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	r.On("ListAllOrders", mock.Anything).Return(nil, errors.New("boom")).Once()
	_, err = svc.ListAllOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "services.orders.ListAllOrders")
}

func TestService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		enforce    bool
		req        models.UpdateOrderRequest
		setupMocks func(r *RepoMock, p *PublisherMock)
		wantErr    error
		wantMsg    string
	}{
		{
			name: "any valid status without enforcement",
			req:  models.UpdateOrderRequest{OrderID: 3, Status: models.StatusPending},
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("UpdateOrderStatus", mock.Anything, int64(3), models.StatusPending, models.Status("")).
					Return(nil).Once()
				p.On("Publish", mock.Anything, mock.MatchedBy(func(e models.OrderEvent) bool {
					return e.Type == models.EventOrderStatusChanged && e.OrderID == 3 && e.Status == models.StatusPending
				})).Return(nil).Once()
			},
		},
		{
			name:       "missing status",
			req:        models.UpdateOrderRequest{OrderID: 3},
			setupMocks: func(_ *RepoMock, _ *PublisherMock) {},
			wantMsg:    MsgUpdateFields,
		},
		{
			name:       "missing order id",
			req:        models.UpdateOrderRequest{Status: models.StatusActive},
			setupMocks: func(_ *RepoMock, _ *PublisherMock) {},
			wantMsg:    MsgUpdateFields,
		},
		{
			name:       "unknown status",
			req:        models.UpdateOrderRequest{OrderID: 3, Status: "shipped"},
			setupMocks: func(_ *RepoMock, _ *PublisherMock) {},
			wantMsg:    MsgInvalidStatus,
		},
		{
			name:       "non-string status",
			req:        models.UpdateOrderRequest{OrderID: 3, Status: "5"},
			setupMocks: func(_ *RepoMock, _ *PublisherMock) {},
			wantMsg:    MsgInvalidStatus,
		},
		{
			name: "order not found",
			req:  models.UpdateOrderRequest{OrderID: 404, Status: models.StatusActive},
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("UpdateOrderStatus", mock.Anything, int64(404), models.StatusActive, models.Status("")).
					Return(storage.ErrOrderNotFound).Once()
			},
			wantErr: ErrOrderNotFound,
		},
		{
			name:    "allowed transition with enforcement",
			enforce: true,
			req:     models.UpdateOrderRequest{OrderID: 5, Status: models.StatusActive},
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("OrderStatus", mock.Anything, int64(5)).Return(models.StatusPending, nil).Once()
				r.On("UpdateOrderStatus", mock.Anything, int64(5), models.StatusActive, models.StatusPending).
					Return(nil).Once()
				p.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:    "terminal status is final with enforcement",
			enforce: true,
			req:     models.UpdateOrderRequest{OrderID: 5, Status: models.StatusActive},
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("OrderStatus", mock.Anything, int64(5)).Return(models.StatusCompleted, nil).Once()
			},
			wantErr: ErrTransitionNotAllowed,
		},
		{
			name:    "concurrent change with enforcement",
			enforce: true,
			req:     models.UpdateOrderRequest{OrderID: 5, Status: models.StatusCompleted},
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("OrderStatus", mock.Anything, int64(5)).Return(models.StatusActive, nil).Once()
				r.On("UpdateOrderStatus", mock.Anything, int64(5), models.StatusCompleted, models.StatusActive).
					Return(storage.ErrOrderNotFound).Once()
			},
			wantErr: ErrTransitionNotAllowed,
		},
		{
			name:    "missing order with enforcement",
			enforce: true,
			req:     models.UpdateOrderRequest{OrderID: 6, Status: models.StatusActive},
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("OrderStatus", mock.Anything, int64(6)).Return(models.Status(""), storage.ErrOrderNotFound).Once()
			},
			wantErr: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, p := new(RepoMock), new(PublisherMock)
			tt.setupMocks(r, p)
			svc := newTestService(r, new(CacheMock), p, tt.enforce)

			err := svc.UpdateOrderStatus(context.Background(), tt.req)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantMsg, vErr.Msg)
			default:
				require.NoError(t, err)
			}
			r.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestService_SummaryAndPlans(t *testing.T) {
	r := new(RepoMock)
	sum := &models.OrderSummary{Total: 2, Pending: 1, Cancelled: 1, Revenue: 199}
	r.On("Summary", mock.Anything).Return(sum, nil).Once()
	r.On("ListPlans", mock.Anything).Return(nil, nil).Once()
	svc := newTestService(r, new(CacheMock), new(PublisherMock), false)

	gotSum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sum, gotSum)

	plans, err := svc.ListPlans(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
	r.AssertExpectations(t)
}
