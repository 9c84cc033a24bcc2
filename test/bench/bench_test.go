package bench

import (
	"context"
	"fmt"
	"testing"

	"github.com/sukryu/labsite/internal/config"
	"github.com/sukryu/labsite/internal/database"
	"github.com/sukryu/labsite/pkg/controllers"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/memory"
	"github.com/sukryu/labsite/pkg/store/document/query"
	"github.com/sukryu/labsite/pkg/store/document/sqlite"
	"github.com/sukryu/labsite/pkg/store/schema"
)

func setupSQLiteStore(b *testing.B) document.Store {
	b.Helper()
	m, err := database.NewManager(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		b.Fatalf("failed to create database manager: %v", err)
	}
	b.Cleanup(func() { m.Close() })

	store, err := sqlite.NewSQLiteDocumentStore(m.GetDB())
	if err != nil {
		b.Fatalf("failed to create document store: %v", err)
	}
	return store
}

var stores = []struct {
	name  string
	setup func(b *testing.B) document.Store
}{
	{"sqlite", setupSQLiteStore},
	{"memory", func(*testing.B) document.Store { return memory.NewMemoryStore() }},
}

func fillPublications(b *testing.B, store document.Store, n int) {
	b.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := store.Create(ctx, "publications", document.Fields{
			"title":   fmt.Sprintf("Paper %d", i),
			"authors": "A. Author",
			"venue":   "Venue",
			"year":    float64(2000 + i%25),
		})
		if err != nil {
			b.Fatalf("failed to create document: %v", err)
		}
	}
}

func BenchmarkDocumentStore_Create(b *testing.B) {
	for _, s := range stores {
		b.Run(s.name, func(b *testing.B) {
			store := s.setup(b)
			ctx := context.Background()
			fields := document.Fields{"title": "News", "date": "2024-01-01", "summary": "s"}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.Create(ctx, "news", fields); err != nil {
					b.Fatalf("failed to create document: %v", err)
				}
			}
		})
	}
}

func BenchmarkDocumentStore_ListOrdered(b *testing.B) {
	for _, s := range stores {
		b.Run(s.name, func(b *testing.B) {
			store := s.setup(b)
			fillPublications(b, store, 500)
			ctx := context.Background()
			params := query.New().AddOrderBy("year", true).WithLimit(20)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				items, err := store.List(ctx, "publications", params)
				if err != nil {
					b.Fatalf("failed to list documents: %v", err)
				}
				if len(items) != 20 {
					b.Fatalf("got %d items, want 20", len(items))
				}
			}
		})
	}
}

func BenchmarkDocumentStore_Update(b *testing.B) {
	for _, s := range stores {
		b.Run(s.name, func(b *testing.B) {
			store := s.setup(b)
			ctx := context.Background()
			id, err := store.Create(ctx, "messages", document.Fields{"name": "Ada", "read": false})
			if err != nil {
				b.Fatalf("failed to create document: %v", err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := store.Update(ctx, "messages", id, document.Fields{"read": i%2 == 0}); err != nil {
					b.Fatalf("failed to update document: %v", err)
				}
			}
		})
	}
}

func BenchmarkCollectionController_CountUnread(b *testing.B) {
	for _, s := range stores {
		b.Run(s.name, func(b *testing.B) {
			store := s.setup(b)
			ctx := context.Background()
			for i := 0; i < 200; i++ {
				if _, err := store.Create(ctx, "messages", document.Fields{"name": "n", "read": i%3 == 0}); err != nil {
					b.Fatalf("failed to create document: %v", err)
				}
			}
			collections := controllers.NewCollectionController(schema.DefaultRegistry(), store)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := collections.CountUnread(ctx); err != nil {
					b.Fatalf("failed to count unread: %v", err)
				}
			}
		})
	}
}
