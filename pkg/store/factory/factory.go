package factory

import (
	"context"
	"fmt"

	"github.com/sukryu/labsite/internal/config"
	"github.com/sukryu/labsite/internal/database"
	"github.com/sukryu/labsite/pkg/store/account"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/memory"
	"github.com/sukryu/labsite/pkg/store/document/sqlite"
	"github.com/sukryu/labsite/pkg/store/interfaces"
)

// Stores holds the stores of one database configuration.
type Stores struct {
	Manager   *database.Manager
	Documents document.Store
	Accounts  interfaces.AccountStore
}

// NewStores opens the configured database and migrates it. With the memory
// driver documents live in process memory and accounts in an in-memory
// SQLite database.
func NewStores(ctx context.Context, cfg config.DatabaseConfig) (*Stores, error) {
	dbCfg := cfg
	if cfg.Driver == string(document.MemoryDB) {
		dbCfg.DSN = ":memory:"
	}

	mgr, err := database.NewManager(dbCfg)
	if err != nil {
		return nil, err
	}

	migrations := []database.Migration{account.Migrate}
	if cfg.Driver == string(document.SQLiteDB) {
		migrations = append(migrations, sqlite.Migrate)
	}
	if err := mgr.Initialize(ctx, migrations...); err != nil {
		mgr.Close()
		return nil, err
	}

	var docs document.Store
	switch document.DatabaseType(cfg.Driver) {
	case document.SQLiteDB:
		docs, err = sqlite.NewSQLiteDocumentStore(mgr.GetDB())
	case document.MemoryDB:
		docs = memory.NewMemoryStore()
	default:
		err = fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		mgr.Close()
		return nil, err
	}

	accounts, err := account.NewStore(mgr.GetDB())
	if err != nil {
		docs.Close()
		mgr.Close()
		return nil, err
	}

	return &Stores{
		Manager:   mgr,
		Documents: docs,
		Accounts:  accounts,
	}, nil
}

func (s *Stores) Close() error {
	if err := s.Documents.Close(); err != nil {
		s.Manager.Close()
		return fmt.Errorf("failed to close document store: %w", err)
	}
	return s.Manager.Close()
}

func (s *Stores) GetStats() map[string]interface{} {
	return s.Manager.GetStats()
}
