// Package database opens the MySQL pool and manages the schema
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courseenroll/backend/migrations"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// MigrationsTable is the golang-migrate version table of this service
const MigrationsTable = "enrollment_schema_migrations"

// Connect opens the connection pool and verifies it with a ping.
// Connections are recycled after ConnMaxLifetime and ConnMaxIdleTime so the server never sees a stale
// connection reused, and the driver checks liveness before handing a pooled connection out.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Maintenance runs schema migrations and diagnostics
type Maintenance struct {
	db     *sql.DB
	dsn    string
	logger *zap.Logger
}

// NewMaintenance creates a new schema maintenance helper.
// dsn is used to open a dedicated connection for migrations, the migrate driver closes it when done.
func NewMaintenance(db *sql.DB, dsn string, logger *zap.Logger) *Maintenance {
	return &Maintenance{
		db:     db,
		dsn:    dsn,
		logger: logger,
	}
}

// Migrate applies all pending migrations. No pending migration is not an error.
func (m *Maintenance) Migrate(ctx context.Context) error {
	conn, err := sql.Open("mysql", m.dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := mysql.WithInstance(conn, &mysql.Config{
		MigrationsTable: MigrationsTable,
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		source.Close()
		driver.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := migrator.Close(); srcErr != nil || dbErr != nil {
			m.logger.Warn("failed to close migrator", zap.NamedError("source_error", srcErr), zap.NamedError("database_error", dbErr))
		}
	}()

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	m.logger.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// ListTables returns the table names of the current database
func (m *Maintenance) ListTables(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SHOW TABLES`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}

	return tables, nil
}
