package kvstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres keeps every entry as a row in a kv table. Heavier than redis but
// lets deployments without one reuse the database they already run.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("migrating kv schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

func migrateSchema(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migration source: %w", err)
	}

	drv, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("building migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return fmt.Errorf("building migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM kv WHERE key = $1`

	var v []byte
	err := p.db.GetContext(ctx, &v, q, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting key[%s]: %w", key, err)
	}
	return v, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	const q = `
	INSERT INTO kv (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := p.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("setting key[%s]: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv WHERE key = $1`

	if _, err := p.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("removing key[%s]: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
