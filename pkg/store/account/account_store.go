package account

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/sukryu/labsite/pkg/apis/auth/v1alpha1"
	"github.com/sukryu/labsite/pkg/errors"
	"github.com/sukryu/labsite/pkg/store/interfaces"
)

type accountRow struct {
	Name         string `gorm:"primaryKey;type:text"`
	UID          string `gorm:"type:text"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Roles        string
	Active       bool
	LastLogin    *int64
	CreatedAt    int64 `gorm:"autoCreateTime:milli"`
	UpdatedAt    int64 `gorm:"autoUpdateTime:milli"`
}

func (accountRow) TableName() string {
	return "accounts"
}

// Migrate creates the accounts table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&accountRow{})
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toRow(a *v1alpha1.Account) accountRow {
	row := accountRow{
		Name:         a.Name,
		UID:          string(a.UID),
		Email:        NormalizeEmail(a.Spec.Email),
		PasswordHash: a.Spec.PasswordHash,
		Roles:        strings.Join(a.Spec.Roles, ","),
		Active:       a.Status.Active,
	}
	if a.Status.LastLogin != nil {
		ms := a.Status.LastLogin.UnixMilli()
		row.LastLogin = &ms
	}
	return row
}

func fromRow(row accountRow) *v1alpha1.Account {
	a := &v1alpha1.Account{
		TypeMeta: metav1.TypeMeta{Kind: "Account", APIVersion: "auth.labsite/v1alpha1"},
		ObjectMeta: metav1.ObjectMeta{
			Name:              row.Name,
			UID:               types.UID(row.UID),
			CreationTimestamp: metav1.NewTime(time.UnixMilli(row.CreatedAt)),
		},
		Spec: v1alpha1.AccountSpec{
			Email:        row.Email,
			PasswordHash: row.PasswordHash,
		},
		Status: v1alpha1.AccountStatus{Active: row.Active},
	}
	if row.Roles != "" {
		a.Spec.Roles = strings.Split(row.Roles, ",")
	}
	if row.LastLogin != nil {
		t := metav1.NewTime(time.UnixMilli(*row.LastLogin))
		a.Status.LastLogin = &t
	}
	return a
}

// Store implements interfaces.AccountStore on gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (interfaces.AccountStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := Migrate(db); err != nil {
		return nil, errors.ErrDatabaseConnection.WithReason(err.Error())
	}
	return &Store{db: db}, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Store) Create(ctx context.Context, account *v1alpha1.Account) error {
	if NormalizeEmail(account.Spec.Email) == "" {
		return errors.ErrInvalidInput.WithReason("email cannot be empty")
	}
	if account.Name == "" {
		account.Name = uuid.New().String()
	}
	if account.UID == "" {
		account.UID = types.UID(uuid.New().String())
	}

	row := toRow(account)
	account.Spec.Email = row.Email
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return errors.ErrAccountExists.WithReason(row.Email)
		}
		return errors.ErrStorageOperation.WithReason(err.Error())
	}
	account.CreationTimestamp = metav1.NewTime(time.UnixMilli(row.CreatedAt))
	return nil
}

func (s *Store) first(ctx context.Context, reason string, query string, args ...interface{}) (*v1alpha1.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAccountNotFound.WithReason(reason)
		}
		return nil, errors.ErrStorageOperation.WithReason(err.Error())
	}
	return fromRow(row), nil
}

func (s *Store) Get(ctx context.Context, name string) (*v1alpha1.Account, error) {
	return s.first(ctx, name, "name = ?", name)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*v1alpha1.Account, error) {
	email = NormalizeEmail(email)
	return s.first(ctx, fmt.Sprintf("email: %s", email), "email = ?", email)
}

func (s *Store) Update(ctx context.Context, account *v1alpha1.Account) error {
	if account.Name == "" {
		return errors.ErrInvalidInput.WithReason("name cannot be empty")
	}

	row := toRow(account)
	result := s.db.WithContext(ctx).Model(&accountRow{}).Where("name = ?", row.Name).Updates(map[string]interface{}{
		"email":         row.Email,
		"password_hash": row.PasswordHash,
		"roles":         row.Roles,
		"active":        row.Active,
		"last_login":    row.LastLogin,
	})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return errors.ErrAccountExists.WithReason(row.Email)
		}
		return errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.ErrAccountNotFound.WithReason(row.Name)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	result := s.db.WithContext(ctx).Where("name = ?", name).Delete(&accountRow{})
	if result.Error != nil {
		return errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.ErrAccountNotFound.WithReason(name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) (*v1alpha1.AccountList, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Order("email").Find(&rows).Error; err != nil {
		return nil, errors.ErrStorageOperation.WithReason(err.Error())
	}

	list := &v1alpha1.AccountList{
		TypeMeta: metav1.TypeMeta{Kind: "AccountList", APIVersion: "auth.labsite/v1alpha1"},
		Items:    make([]*v1alpha1.Account, 0, len(rows)),
	}
	for _, row := range rows {
		list.Items = append(list.Items, fromRow(row))
	}
	return list, nil
}

func (s *Store) RecordLogin(ctx context.Context, name string, at time.Time) error {
	ms := at.UnixMilli()
	result := s.db.WithContext(ctx).Model(&accountRow{}).Where("name = ?", name).Update("last_login", ms)
	if result.Error != nil {
		return errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.ErrAccountNotFound.WithReason(name)
	}
	return nil
}
