package kv

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/mikimauro/scanbiz/internal/dbx"
	"github.com/mikimauro/scanbiz/internal/kv/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB is an opened key-value database. It embeds the repository bound to the
// connection pool and adds transactions.
type DB struct {
	*SQLRepository
	conn    *sql.DB
	dialect dbx.Dialect
}

// Open connects to dsn, picking the driver from dbx.DialectFromDSN, and applies
// the embedded migrations.
func Open(ctx context.Context, dsn string) (*DB, error) {
	dialect := dbx.DialectFromDSN(dsn)

	conn, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == dbx.DialectSQLite {
		// a single writer keeps ":memory:" databases on one connection
		conn.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, conn, dialect); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &DB{
		SQLRepository: NewSQLRepository(conn, dialect),
		conn:          conn,
		dialect:       dialect,
	}, nil
}

// RunMigrations applies the goose migrations for dialect.
func RunMigrations(ctx context.Context, conn *sql.DB, dialect dbx.Dialect) error {
	var (
		fsys fs.FS
		dir  string
	)
	switch dialect {
	case dbx.DialectPostgres:
		fsys, dir = migrations.Postgres, "postgres"
	default:
		fsys, dir = migrations.SQLite, "sqlite"
	}

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, conn, dir)
}

// WithTx runs fn inside a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	return dbx.WithTx(ctx, d.conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewSQLRepository(tx, d.dialect))
	})
}

// Dialect reports the SQL flavour of the connection.
func (d *DB) Dialect() dbx.Dialect {
	return d.dialect
}

func (d *DB) Close() error {
	return d.conn.Close()
}
