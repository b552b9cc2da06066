package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/models"
)

// Store owns the relational schema and the cascade rules. An explicit
// handle is passed to every repository and the analytics service; there
// is no ambient connection.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the database named by dsn. Postgres URLs and
// keyword DSNs select the postgres driver; anything else is treated as
// a sqlite file path (or ":memory:"). SQLite connections get foreign
// key enforcement switched on.
func Open(dsn string, log *logger.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}
	if log == nil {
		log = logger.NewNop()
	}

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	if !isPostgresDSN(dsn) {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, &StoreError{Op: "enable foreign keys", Err: err}
		}
	}

	log.Debug("store opened", "dsn", dsn)
	return &Store{db: db, log: log}, nil
}

// NewWithDB wraps an existing gorm connection, for tests.
func NewWithDB(db *gorm.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{db: db, log: log}
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// DB exposes the underlying connection for repositories and read-only
// consumers.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Init creates any missing tables for the registered models. Running it
// against an already-initialized store is a no-op.
func (s *Store) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.Registry...); err != nil {
		return &StoreError{Op: "init schema", Err: err}
	}
	return nil
}

// Transaction runs fn inside a single transaction so a failure partway
// through a multi-row change leaves the store untouched.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// DeleteProperty removes a property together with its tenants,
// maintenance requests, guest bookings, and the rent invoices of those
// tenants, all-or-nothing.
func (s *Store) DeleteProperty(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *gorm.DB) error {
		var prop models.Property
		if err := tx.First(&prop, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "property", ID: id}
			}
			return &StoreError{Op: "delete property", Err: err}
		}

		sub := tx.Model(&models.Tenant{}).Select("id").Where("property_id = ?", id)
		if err := tx.Where("tenant_id IN (?)", sub).Delete(&models.RentInvoice{}).Error; err != nil {
			return &StoreError{Op: "delete property invoices", Err: err}
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.Tenant{}).Error; err != nil {
			return &StoreError{Op: "delete property tenants", Err: err}
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.MaintenanceRequest{}).Error; err != nil {
			return &StoreError{Op: "delete property maintenance", Err: err}
		}
		if err := tx.Where("property_id = ?", id).Delete(&models.GuestBooking{}).Error; err != nil {
			return &StoreError{Op: "delete property bookings", Err: err}
		}
		if err := tx.Delete(&models.Property{}, id).Error; err != nil {
			return &StoreError{Op: "delete property", Err: err}
		}
		s.log.Info("property deleted", "id", id)
		return nil
	})
}

// DeleteTenant removes a tenant and its rent invoices, all-or-nothing.
func (s *Store) DeleteTenant(ctx context.Context, id uint) error {
	return s.Transaction(ctx, func(tx *gorm.DB) error {
		var tenant models.Tenant
		if err := tx.First(&tenant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "tenant", ID: id}
			}
			return &StoreError{Op: "delete tenant", Err: err}
		}
		if err := tx.Where("tenant_id = ?", id).Delete(&models.RentInvoice{}).Error; err != nil {
			return &StoreError{Op: "delete tenant invoices", Err: err}
		}
		if err := tx.Delete(&models.Tenant{}, id).Error; err != nil {
			return &StoreError{Op: "delete tenant", Err: err}
		}
		s.log.Info("tenant deleted", "id", id)
		return nil
	})
}
