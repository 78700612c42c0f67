package sqlite

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "sessio-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	})

	return store
}

func saveMaterial(t *testing.T, store *Store, id, title string, categories ...string) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &domain.Material{
		ID:         id,
		Title:      title,
		Content:    "content of " + title,
		Categories: categories,
		Status:     domain.StatusPending,
	}))
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "sessio-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "m1", "CBT Basics", "cbt", "foundations")

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "CBT Basics", got.Title)
	assert.Equal(t, []string{"cbt", "foundations"}, got.Categories)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.Embedding)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveUpsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "m1", "First Title")
	saveMaterial(t, store, "m1", "Second Title")

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Second Title", got.Title)

	materials, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, materials, 1)
}

func TestStore_ListInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"z", "a", "m"} {
		saveMaterial(t, store, id, "Title "+id)
	}

	materials, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, "z", materials[0].ID)
	assert.Equal(t, "a", materials[1].ID)
	assert.Equal(t, "m", materials[2].ID)
}

func TestStore_EmbeddingRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "m1", "Doc")
	require.NoError(t, store.SetInsights(ctx, "m1", "insights"))

	vec := make([]float32, domain.EmbeddingDimensions)
	for i := range vec {
		vec[i] = float32(i) * 0.25
	}
	require.NoError(t, store.SetEmbedding(ctx, "m1", vec))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, vec, got.Embedding)
}

func TestStore_EmbeddedListings(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "pending", "Pending")
	saveMaterial(t, store, "bare", "No Vector")
	saveMaterial(t, store, "vec", "With Vector")
	require.NoError(t, store.SetInsights(ctx, "bare", "insights"))
	require.NoError(t, store.SetInsights(ctx, "vec", "insights"))
	require.NoError(t, store.SetEmbedding(ctx, "vec", []float32{1, 2, 3}))

	embedded, err := store.ListEmbedded(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 1)
	assert.Equal(t, "vec", embedded[0].ID)

	missing, err := store.ListMissingEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "bare", missing[0].ID)
}

func TestStore_ListByCategory(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "m1", "CBT Manual", "cbt")
	saveMaterial(t, store, "m2", "ACT Guide", "act")
	saveMaterial(t, store, "m3", "Unprocessed CBT", "cbt")
	require.NoError(t, store.SetInsights(ctx, "m1", "insights"))
	require.NoError(t, store.SetInsights(ctx, "m2", "insights"))

	cbt, err := store.ListByCategory(ctx, "cbt")
	require.NoError(t, err)
	require.Len(t, cbt, 1)
	assert.Equal(t, "m1", cbt[0].ID)
}

func TestStore_StatusLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "m1", "Doc")
	require.NoError(t, store.UpdateStatus(ctx, "m1", domain.StatusProcessing))
	require.NoError(t, store.SetInsights(ctx, "m1", "done"))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, got.Status)
	assert.Equal(t, "done", got.Insights)

	assert.ErrorIs(t, store.UpdateStatus(ctx, "missing", domain.StatusError), domain.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saveMaterial(t, store, "m1", "Doomed")
	require.NoError(t, store.Delete(ctx, "m1"))

	_, err := store.Get(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "m1"), domain.ErrNotFound)
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	vec := []float32{0, -1.5, 3.25, 123456.789}

	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
