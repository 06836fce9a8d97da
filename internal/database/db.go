package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // embedded SQLite driver (pure Go)

	"github.com/voxstream/voxstream-backend/internal/config"
)

// DB wraps the database connection
type DB struct {
	*sqlx.DB
	Driver string
}

// NewConnection creates a new database connection. SQLite is the default
// backend; PostgreSQL is selected via the driver config. Failures here are
// non-fatal to the caller: the persistence subsystem degrades to
// in-memory-only operation without a store.
func NewConnection(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return newSQLite(cfg)
	case "postgres":
		return newPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func newSQLite(cfg config.DatabaseConfig) (*DB, error) {
	// Best-effort durability hint: make sure the parent directory exists.
	// A failure here falls through to the open attempt.
	if dir := filepath.Dir(cfg.Path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// modernc sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	return &DB{DB: db, Driver: "sqlite"}, nil
}

func newPostgres(cfg config.DatabaseConfig) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: db, Driver: "postgres"}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// MigrationDSN returns the connection URL used by golang-migrate.
func MigrationDSN(cfg config.DatabaseConfig) string {
	switch cfg.Driver {
	case "", "sqlite":
		return fmt.Sprintf("sqlite://%s", cfg.Path)
	default:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)
	}
}
