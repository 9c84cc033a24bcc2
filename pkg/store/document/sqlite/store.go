package sqlite

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/document"
	"github.com/sukryu/labsite/pkg/store/document/query"
)

// documentModel is one row of the documents table. Field data is kept as a
// JSON object and queried with json_extract.
type documentModel struct {
	ID         string `gorm:"primaryKey;type:text"`
	Collection string `gorm:"index;not null"`
	Data       string `gorm:"type:text;not null"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli"`
	UpdatedAt  int64  `gorm:"autoUpdateTime:milli"`
}

func (documentModel) TableName() string {
	return "documents"
}

// Migrate creates the documents table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&documentModel{})
}

type SQLiteDocumentStore struct {
	db *gorm.DB
}

func NewSQLiteDocumentStore(db *gorm.DB) (document.Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := Migrate(db); err != nil {
		return nil, errors.ErrDatabaseConnection.WithReason(err.Error())
	}
	return &SQLiteDocumentStore{db: db}, nil
}

func jsonPath(column string) string {
	return fmt.Sprintf("json_extract(data, '$.%s')", column)
}

// sqlValue converts a filter value into what json_extract yields for it.
func sqlValue(v interface{}) interface{} {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func (s *SQLiteDocumentStore) scoped(ctx context.Context, collection string, params *query.QueryParams) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&documentModel{}).Where("collection = ?", collection)
	if params == nil {
		return tx
	}
	for _, w := range params.Where {
		tx = tx.Where(fmt.Sprintf("%s %s ?", jsonPath(w.Column), w.Operator), sqlValue(w.Value))
	}
	return tx
}

func decode(m documentModel) (document.Item, error) {
	fields := document.Fields{}
	if err := json.Unmarshal([]byte(m.Data), &fields); err != nil {
		return document.Item{}, errors.ErrInvalidJSON.WithReason(fmt.Sprintf("%s/%s: %v", m.Collection, m.ID, err))
	}
	return document.Item{ID: m.ID, Fields: fields}, nil
}

func (s *SQLiteDocumentStore) List(ctx context.Context, collection string, params *query.QueryParams) ([]document.Item, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.ErrInvalidInput.WithReason(err.Error())
	}

	tx := s.scoped(ctx, collection, params)
	if params != nil {
		for _, o := range params.OrderBy {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			tx = tx.Order(jsonPath(o.Column) + " " + dir)
		}
		if params.Limit > 0 {
			tx = tx.Limit(params.Limit)
		}
		if params.Offset > 0 {
			tx = tx.Offset(params.Offset)
		}
	}
	tx = tx.Order("rowid")

	var rows []documentModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errors.ErrStorageOperation.WithReason(err.Error())
	}

	items := make([]document.Item, 0, len(rows))
	for _, row := range rows {
		item, err := decode(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *SQLiteDocumentStore) Get(ctx context.Context, collection string, id string) (document.Item, error) {
	var row documentModel
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return document.Item{}, errors.ErrNotFound.WithReason(fmt.Sprintf("%s/%s", collection, id))
		}
		return document.Item{}, errors.ErrStorageOperation.WithReason(err.Error())
	}
	return decode(row)
}

func (s *SQLiteDocumentStore) Create(ctx context.Context, collection string, fields document.Fields) (string, error) {
	if collection == "" {
		return "", errors.ErrInvalidInput.WithReason("collection name cannot be empty")
	}
	if fields == nil {
		fields = document.Fields{}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return "", errors.ErrInvalidJSON.WithReason(err.Error())
	}

	row := documentModel{
		ID:         uuid.New().String(),
		Collection: collection,
		Data:       string(data),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", errors.ErrStorageOperation.WithReason(err.Error())
	}
	return row.ID, nil
}

func (s *SQLiteDocumentStore) Update(ctx context.Context, collection string, id string, fields document.Fields) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentModel
		err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrNotFound.WithReason(fmt.Sprintf("%s/%s", collection, id))
			}
			return errors.ErrStorageOperation.WithReason(err.Error())
		}

		item, err := decode(row)
		if err != nil {
			return err
		}
		for k, v := range fields {
			item.Fields[k] = v
		}

		data, err := json.Marshal(item.Fields)
		if err != nil {
			return errors.ErrInvalidJSON.WithReason(err.Error())
		}
		if err := tx.Model(&row).Update("data", string(data)).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		return nil
	})
}

func (s *SQLiteDocumentStore) Delete(ctx context.Context, collection string, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentModel{}).Error
	if err != nil {
		return errors.ErrStorageOperation.WithReason(err.Error())
	}
	return nil
}

func (s *SQLiteDocumentStore) Count(ctx context.Context, collection string, params *query.QueryParams) (int64, error) {
	if err := params.Validate(); err != nil {
		return 0, errors.ErrInvalidInput.WithReason(err.Error())
	}

	var n int64
	if err := s.scoped(ctx, collection, params).Count(&n).Error; err != nil {
		return 0, errors.ErrStorageOperation.WithReason(err.Error())
	}
	return n, nil
}

// Close is a no-op; the connection belongs to the database manager.
func (s *SQLiteDocumentStore) Close() error {
	return nil
}
