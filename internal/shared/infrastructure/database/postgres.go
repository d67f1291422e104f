package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresConnection struct {
	pool *pgxpool.Pool
}

func connectPostgres(ctx context.Context, cfg Config) (Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	} else {
		poolCfg.MaxConnLifetime = time.Hour
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}

	return &postgresConnection{pool: pool}, nil
}

func (c *postgresConnection) Driver() Driver { return DriverPostgres }

func (c *postgresConnection) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *postgresConnection) Close() error {
	c.pool.Close()
	return nil
}

func (c *postgresConnection) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	tag, err := c.pool.Exec(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgResult{tag: tag.RowsAffected()}, nil
}

func (c *postgresConnection) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rows: rows}, nil
}

func (c *postgresConnection) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgRow{row: c.pool.QueryRow(ctx, rebind(query), args...)}
}

func (c *postgresConnection) Begin(ctx context.Context) (Transaction, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &postgresTransaction{tx: tx, ctx: ctx}, nil
}

type postgresTransaction struct {
	tx  pgx.Tx
	ctx context.Context
}

func (t *postgresTransaction) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	tag, err := t.tx.Exec(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgResult{tag: tag.RowsAffected()}, nil
}

func (t *postgresTransaction) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rows: rows}, nil
}

func (t *postgresTransaction) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgRow{row: t.tx.QueryRow(ctx, rebind(query), args...)}
}

func (t *postgresTransaction) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *postgresTransaction) Rollback() error { return t.tx.Rollback(t.ctx) }

type pgResult struct {
	tag int64
}

func (r pgResult) RowsAffected() (int64, error) { return r.tag, nil }

type pgRows struct {
	rows pgx.Rows
}

func (r pgRows) Next() bool            { return r.rows.Next() }
func (r pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgRows) Err() error            { return r.rows.Err() }

func (r pgRows) Close() error {
	r.rows.Close()
	return nil
}

type pgRow struct {
	row pgx.Row
}

func (r pgRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}
