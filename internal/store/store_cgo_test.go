//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deckhand/deckhand/internal/config"
	"github.com/deckhand/deckhand/internal/trackerapi"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	store, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestOpenMemoryStore(t *testing.T) {
	store := openMemoryStore(t)
	require.Equal(t, "libsql", store.Driver())
}

func TestTaskCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	task := &trackerapi.Task{ID: "t1", Title: "Fix login flow", Status: "open"}
	require.NoError(t, store.SetCachedTask(ctx, task, time.Minute))

	cached, err := store.GetCachedTask(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "Fix login flow", cached.Title)

	missing, err := store.GetCachedTask(ctx, "t2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestTaskCacheExpiry(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	task := &trackerapi.Task{ID: "t1", Title: "Fix login flow"}
	require.NoError(t, store.SetCachedTask(ctx, task, -time.Minute))

	cached, err := store.GetCachedTask(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestCacheUpsertReplacesPayload(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	require.NoError(t, store.SetCachedTask(ctx, &trackerapi.Task{ID: "t1", Title: "v1"}, time.Minute))
	require.NoError(t, store.SetCachedTask(ctx, &trackerapi.Task{ID: "t1", Title: "v2"}, time.Minute))

	cached, err := store.GetCachedTask(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "v2", cached.Title)
}

func TestPruneExpired(t *testing.T) {
	ctx := context.Background()
	store := openMemoryStore(t)

	require.NoError(t, store.SetCachedTask(ctx, &trackerapi.Task{ID: "gone"}, time.Millisecond))
	require.NoError(t, store.SetCachedProject(ctx, &trackerapi.Project{ID: "kept", Name: "Auth"}, time.Hour))
	time.Sleep(1100 * time.Millisecond)

	removed, err := store.PruneExpired(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, removed, int64(1))

	project, err := store.GetCachedProject(ctx, "kept")
	require.NoError(t, err)
	require.NotNil(t, project)
	require.Equal(t, "Auth", project.Name)
}
