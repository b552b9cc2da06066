package repos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyumba-labs/propops/internal/logger"
	"github.com/nyumba-labs/propops/repos"
	"github.com/nyumba-labs/propops/store"
)

func TestPropertyCreateValidation(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewPropertyRepo(st, logger.NewNop())

	_, err := repo.Create(context.Background(), repos.PropertyInput{Category: "Airbnb"})
	require.Error(t, err)

	var ve *store.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "property", ve.Entity)
	assert.Contains(t, ve.Violations, "name is required")
	assert.Contains(t, ve.Violations, "location is required")
}

func TestPropertyUnitsDefaultToOne(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewPropertyRepo(st, logger.NewNop())

	prop, err := repo.Create(context.Background(), repos.PropertyInput{
		Name: "Lavington Heights", Category: "Long-term", Location: "Nairobi",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, prop.Units)
}

func TestPropertyGetMissing(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewPropertyRepo(st, logger.NewNop())

	_, err := repo.Get(context.Background(), 42)
	assert.True(t, store.IsNotFound(err))
}

func TestPropertyUpdate(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewPropertyRepo(st, logger.NewNop())
	prop := createProperty(t, st)

	units := 8
	updated, err := repo.Update(context.Background(), prop.ID, repos.PropertyPatch{Units: &units})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Units)
	assert.Equal(t, prop.Name, updated.Name)

	bad := 0
	_, err = repo.Update(context.Background(), prop.ID, repos.PropertyPatch{Units: &bad})
	assert.True(t, store.IsValidation(err))
}

func TestPropertyListOrder(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewPropertyRepo(st, logger.NewNop())
	ctx := context.Background()

	for _, name := range []string{"Zanzibar Court", "Acacia Park", "Mombasa View"} {
		_, err := repo.Create(ctx, repos.PropertyInput{Name: name, Category: "Long-term", Location: "Nairobi"})
		require.NoError(t, err)
	}

	props, err := repo.List(ctx, repos.PropertyFilter{})
	require.NoError(t, err)
	require.Len(t, props, 3)
	assert.Equal(t, "Zanzibar Court", props[0].Name) // insertion order

	byName, err := repo.List(ctx, repos.PropertyFilter{OrderByName: true})
	require.NoError(t, err)
	assert.Equal(t, "Acacia Park", byName[0].Name)
}

func TestPropertyDeleteMissing(t *testing.T) {
	st := newTestStore(t)
	repo := repos.NewPropertyRepo(st, logger.NewNop())

	err := repo.Delete(context.Background(), 42)
	assert.True(t, store.IsNotFound(err))
}
