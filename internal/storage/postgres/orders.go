package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magabrotheeeer/waste-orders/internal/models"
	"github.com/magabrotheeeer/waste-orders/internal/storage"
)

// PlanByID возвращает тариф по идентификатору или storage.ErrPlanNotFound.
func (s *Storage) PlanByID(ctx context.Context, id int64) (*models.Plan, error) {
	const op = "storage.postgres.PlanByID"

	var plan models.Plan
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx,
			`SELECT id, name, price, duration FROM subscription_plans WHERE id = $1`, id).
			Scan(&plan.ID, &plan.Name, &plan.Price, &plan.Duration)
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrPlanNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans возвращает справочник тарифов.
func (s *Storage) ListPlans(ctx context.Context) ([]models.Plan, error) {
	const op = "storage.postgres.ListPlans"

	var plans []models.Plan
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name, price, duration FROM subscription_plans ORDER BY id`)
		if err != nil {
			return err
		}
		plans, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Plan, error) {
			var p models.Plan
			err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Duration)
			return p, err
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateOrder в одной транзакции обновляет или создаёт клиента по email
// и вставляет заказ. Возвращает идентификаторы заказа и клиента.
func (s *Storage) CreateOrder(ctx context.Context, user models.User, order models.Order) (*models.CreatedOrder, error) {
	const op = "storage.postgres.CreateOrder"

	var created models.CreatedOrder
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
			err := tx.QueryRow(ctx, `
				INSERT INTO users (name, email, phone, address)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (email) DO UPDATE
				SET name = EXCLUDED.name, phone = EXCLUDED.phone, address = EXCLUDED.address
				RETURNING id`,
				user.Name, user.Email, user.Phone, user.Address).Scan(&created.UserID)
			if err != nil {
				return err
			}

			return tx.QueryRow(ctx, `
				INSERT INTO orders (user_id, plan_id, address, status, start_date, end_date)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id, created_at`,
				created.UserID, order.PlanID, order.Address, string(order.Status),
				order.StartDate, order.EndDate).Scan(&created.OrderID, &created.CreatedAt)
		})
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListAllOrders возвращает все заказы с данными клиентов и тарифов, новые первыми.
func (s *Storage) ListAllOrders(ctx context.Context) ([]models.AdminOrder, error) {
	const op = "storage.postgres.ListAllOrders"

	var orders []models.AdminOrder
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT o.id, u.name, u.email, u.phone, o.address, sp.name, sp.price,
			       o.status, o.created_at, o.start_date, o.end_date
			FROM orders o
			JOIN users u ON o.user_id = u.id
			JOIN subscription_plans sp ON o.plan_id = sp.id
			ORDER BY o.created_at DESC`)
		if err != nil {
			return err
		}
		orders, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AdminOrder, error) {
			var (
				o                  models.AdminOrder
				status             string
				createdAt          *time.Time
				startDate, endDate *time.Time
			)
			err := row.Scan(&o.ID, &o.UserName, &o.UserEmail, &o.UserPhone, &o.Address,
				&o.PlanName, &o.Price, &status, &createdAt, &startDate, &endDate)
			o.Status = models.Status(status)
			o.CreatedAt = models.FormatTimestamp(createdAt)
			o.StartDate = models.FormatDate(startDate)
			o.EndDate = models.FormatDate(endDate)
			return o, err
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListUserOrders возвращает заказы клиента, при непустом status — только с этим статусом.
func (s *Storage) ListUserOrders(ctx context.Context, userID int64, status string) ([]models.UserOrder, error) {
	const op = "storage.postgres.ListUserOrders"

	query := `
		SELECT o.id, o.address, sp.name, sp.price, o.status, o.created_at, o.start_date, o.end_date
		FROM orders o
		JOIN subscription_plans sp ON o.plan_id = sp.id
		WHERE o.user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND o.status = $2`
		args = append(args, status)
	}

	var orders []models.UserOrder
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		orders, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserOrder, error) {
			var (
				o                  models.UserOrder
				st                 string
				createdAt          *time.Time
				startDate, endDate *time.Time
			)
			err := row.Scan(&o.ID, &o.Address, &o.PlanName, &o.Price, &st,
				&createdAt, &startDate, &endDate)
			o.Status = models.Status(st)
			o.CreatedAt = models.FormatTimestamp(createdAt)
			o.StartDate = models.FormatDate(startDate)
			o.EndDate = models.FormatDate(endDate)
			return o, err
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderStatus возвращает текущий статус заказа или storage.ErrOrderNotFound.
func (s *Storage) OrderStatus(ctx context.Context, id int64) (models.Status, error) {
	const op = "storage.postgres.OrderStatus"

	var status string
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrOrderNotFound
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return models.Status(status), nil
}

// UpdateOrderStatus меняет статус заказа и updated_at.
// Если expected не пуст, строка обновляется только при совпадении текущего статуса.
// Когда ни одна строка не изменена, возвращается storage.ErrOrderNotFound.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, status, expected models.Status) error {
	const op = "storage.postgres.UpdateOrderStatus"

	return s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE orders
			SET status = $1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $2 AND ($3::text = '' OR status = $3::text)`,
			string(status), id, string(expected))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrOrderNotFound
		}
		return nil
	})
}

// Summary считает заказы по статусам и выручку по неотменённым заказам.
func (s *Storage) Summary(ctx context.Context) (*models.OrderSummary, error) {
	const op = "storage.postgres.Summary"

	var sum models.OrderSummary
	err := s.withConn(ctx, op, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT COUNT(*),
			       COUNT(*) FILTER (WHERE o.status = 'pending'),
			       COUNT(*) FILTER (WHERE o.status = 'active'),
			       COUNT(*) FILTER (WHERE o.status = 'completed'),
			       COUNT(*) FILTER (WHERE o.status = 'cancelled'),
			       COALESCE(SUM(sp.price) FILTER (WHERE o.status <> 'cancelled'), 0)
			FROM orders o
			JOIN subscription_plans sp ON o.plan_id = sp.id`).
			Scan(&sum.Total, &sum.Pending, &sum.Active, &sum.Completed, &sum.Cancelled, &sum.Revenue)
	})
	if err != nil {
		return nil, err
	}
	return &sum, nil
}
