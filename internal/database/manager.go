package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sukryu/labsite/internal/config"

	_ "modernc.org/sqlite" // pure Go driver, registered as "sqlite"
)

// Migration creates or updates the tables of one store.
type Migration func(db *gorm.DB) error

// Manager owns the SQLite connection shared by the document and account
// stores.
type Manager struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

func NewManager(cfg config.DatabaseConfig) (*Manager, error) {
	dsn := cfg.DSN
	memory := isMemoryDSN(dsn)
	if !memory && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_time_format=sqlite"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite supports one writer; an in-memory database also lives and dies
	// with its single connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if !memory {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if !memory {
		if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if err := db.Exec("PRAGMA synchronous = NORMAL;").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
		}
	}

	return &Manager{db: db, sqlDB: sqlDB}, nil
}

// Initialize runs the migrations in order.
func (m *Manager) Initialize(ctx context.Context, migrations ...Migration) error {
	db := m.db.WithContext(ctx)
	for _, migrate := range migrations {
		if err := migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

func (m *Manager) Close() error {
	return m.sqlDB.Close()
}

func (m *Manager) GetStats() map[string]interface{} {
	stats := m.sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
	}
}

// Ping checks that the database answers.
func (m *Manager) Ping(ctx context.Context) error {
	return m.sqlDB.PingContext(ctx)
}
