// Package postgres реализует хранилище заказов на PostgreSQL поверх пула pgxpool.
// Каждая операция берёт соединение из пула и возвращает его через defer,
// поэтому соединение освобождается на любом пути выхода, включая панику.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/waste-orders/internal/config"
)

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// New создаёт пул соединений по строке подключения и проверяет доступность базы.
func New(ctx context.Context, connString string, cfg config.Postgres) (*Storage, error) {
	const op = "storage.postgres.New"

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{pool: pool}, nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close закрывает пул.
func (s *Storage) Close() {
	s.pool.Close()
}

// SQLDB возвращает database/sql обёртку над пулом, нужна для миграций.
// Закрытие возвращённого *sql.DB пул не закрывает.
func (s *Storage) SQLDB() *sql.DB {
	return stdlib.OpenDBFromPool(s.pool)
}

// withConn выполняет fn на соединении из пула.
func (s *Storage) withConn(ctx context.Context, op string, fn func(conn *pgxpool.Conn) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%s: acquire: %w", op, err)
	}
	defer conn.Release()

	if err := fn(conn); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
