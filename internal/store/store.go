// Package store provides database connectivity and the records repository.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultPingTimeout is the default timeout for ping operations
	DefaultPingTimeout = 5 * time.Second
)

// Config holds database configuration. Driver selects "sqlite3" (Path) or
// "postgres" (Host/Port/User/Password/DBName/SSLMode).
type Config struct {
	Driver          string
	Path            string
	Host            string
	Port            int
	User            string
	Password        string //nolint:gosec // G117: DB connection config
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open creates a database connection for the configured driver and verifies
// it with a ping.
func Open(cfg Config) (*sqlx.DB, error) {
	driver, dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	applyPoolSettings(db, driver, cfg)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}

func buildDSN(cfg Config) (driver, dsn string, err error) {
	switch cfg.Driver {
	case "", "sqlite3":
		path := cfg.Path
		if path == "" {
			path = "globalpulse.db"
		}
		// _loc=UTC keeps stored and queried timestamps comparable.
		return "sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_loc=UTC", path), nil
	case "postgres":
		return "postgres", fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

func applyPoolSettings(db *sqlx.DB, driver string, cfg Config) {
	if driver == "sqlite3" {
		// A single connection sidesteps SQLITE_BUSY under concurrent writes
		// and makes :memory: databases usable.
		db.SetMaxOpenConns(1)
		return
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = DefaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = DefaultMaxIdleConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = DefaultConnMaxLifetime
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
}
