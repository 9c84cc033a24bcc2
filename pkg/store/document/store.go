package document

import (
	"context"
	"encoding/json"

	"github.com/sukryu/labsite/pkg/store/document/query"
)

// Fields holds a document's key/value data.
type Fields map[string]interface{}

// Clone returns a shallow copy; values are scalars.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Item is a stored document.
type Item struct {
	ID     string
	Fields Fields
}

// MarshalJSON flattens the document as {"id": ..., <fields>...}.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(i.Fields)+1)
	for k, v := range i.Fields {
		out[k] = v
	}
	out["id"] = i.ID
	return json.Marshal(out)
}

// Store is a schemaless per-document store addressed by collection name and
// document id.
type Store interface {
	// List returns the documents of a collection. A nil params lists every
	// document in store order.
	List(ctx context.Context, collection string, params *query.QueryParams) ([]Item, error)
	Get(ctx context.Context, collection string, id string) (Item, error)
	// Create stores fields as a new document and returns its generated id.
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// Update merges fields into an existing document. Keys not present in
	// fields are kept.
	Update(ctx context.Context, collection string, id string, fields Fields) error
	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection string, id string) error
	Count(ctx context.Context, collection string, params *query.QueryParams) (int64, error)

	Close() error
}

type DatabaseType string

const (
	SQLiteDB DatabaseType = "sqlite"
	MemoryDB DatabaseType = "memory"
)
