package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/models"
	"github.com/nyumba-labs/propops/repos"
	"github.com/nyumba-labs/propops/store"
)

func newTestStore(t *testing.T) *store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	st := store.NewWithDB(db, logger.NewNop())
	require.NoError(t, st.Init(context.Background()))
	return st
}

func createProperty(t *testing.T, st *store.Store) *models.Property {
	t.Helper()
	prop, err := repos.NewPropertyRepo(st, logger.NewNop()).Create(context.Background(), repos.PropertyInput{
		Name:     "Kilimani Suites",
		Category: "Airbnb",
		Location: "Nairobi",
		Units:    6,
	})
	require.NoError(t, err)
	return prop
}

func createTenant(t *testing.T, st *store.Store, propertyID uint) *models.Tenant {
	t.Helper()
	tenant, err := repos.NewTenantRepo(st, logger.NewNop()).Create(context.Background(), repos.TenantInput{
		PropertyID:  propertyID,
		FullName:    "Alice Naliaka",
		Contact:     "+254712345678",
		LeaseStart:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		MonthlyRent: 72000,
		IsAirbnb:    true,
	})
	require.NoError(t, err)
	return tenant
}
