package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

// SQLAdapter keeps the two values as rows of a kv_store table. It works
// against MySQL ("mysql") and PostgreSQL ("postgres").
type SQLAdapter struct {
	db *sqlx.DB
}

// OpenSQL connects with the named driver and creates the table if needed.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLAdapter, error) {
	switch driver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	adapter := NewSQLAdapter(db)
	if err := adapter.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return adapter, nil
}

func NewSQLAdapter(db *sqlx.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(64) PRIMARY KEY,
			v TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (s *SQLAdapter) Close() error {
	return s.db.Close()
}

func (s *SQLAdapter) ReadSnapshot(ctx context.Context) ([]domain.Product, bool, error) {
	raw, found, err := s.get(ctx, productsKey)
	if err != nil || !found {
		return nil, false, err
	}
	products, ok := decodeSnapshot([]byte(raw))
	return products, ok, nil
}

func (s *SQLAdapter) WriteSnapshot(ctx context.Context, products []domain.Product) error {
	data, err := encodeSnapshot(products)
	if err != nil {
		return err
	}
	return s.put(ctx, productsKey, string(data))
}

func (s *SQLAdapter) LoadToken(ctx context.Context) (string, error) {
	token, _, err := s.get(ctx, tokenKey)
	return token, err
}

func (s *SQLAdapter) SaveToken(ctx context.Context, token string) error {
	return s.put(ctx, tokenKey, token)
}

func (s *SQLAdapter) ClearToken(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM kv_store WHERE k = ?`), tokenKey)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *SQLAdapter) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(`SELECT v FROM kv_store WHERE k = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLAdapter) put(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`
	if s.db.DriverName() == "postgres" {
		query = `INSERT INTO kv_store (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
