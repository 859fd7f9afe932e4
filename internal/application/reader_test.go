package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

func TestCatalogReader_WithoutFeedFetches(t *testing.T) {
	store := newMemoryStore()
	svc := newCatalogService(store)
	id, err := svc.Create(authedContext(), validForm())
	require.NoError(t, err)

	reader := application.NewCatalogReader(nil, svc)
	ctx := context.Background()

	records, err := reader.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	rec, ok, err := reader.Find(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, rec.ID)

	_, ok, err = reader.Find(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	live, _ := reader.Live()
	assert.False(t, live)
}

func TestCatalogReader_UsesLoadedFeed(t *testing.T) {
	store := newMemoryStore()
	feed, svc := startFeed(t, store)
	id, err := svc.Create(authedContext(), validForm())
	require.NoError(t, err)
	waitForVersion(t, feed, 2)

	store.fetchErr = model.ErrStoreUnavailable
	reader := application.NewCatalogReader(feed, svc)

	records, err := reader.Records(context.Background())
	require.NoError(t, err, "served from the live copy")
	assert.Len(t, records, 1)

	_, ok, err := reader.Find(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	live, liveErr := reader.Live()
	assert.True(t, live)
	assert.NoError(t, liveErr)
}

func TestCatalogReader_FetchFailure(t *testing.T) {
	store := newMemoryStore()
	store.fetchErr = model.ErrStoreUnavailable
	reader := application.NewCatalogReader(nil, newCatalogService(store))

	_, err := reader.Records(context.Background())
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, _, err = reader.Find(context.Background(), "x")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}
