package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

func newMaterial(id, title string, categories ...string) *domain.Material {
	return &domain.Material{
		ID:         id,
		Title:      title,
		Content:    "content of " + title,
		Categories: categories,
		Status:     domain.StatusPending,
	}
}

func TestMaterialStore_SaveAndGet(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	m := newMaterial("m1", "CBT Basics", "cbt")
	require.NoError(t, store.Save(ctx, m))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "CBT Basics", got.Title)
	assert.Equal(t, []string{"cbt"}, got.Categories)
}

func TestMaterialStore_GetNotFound(t *testing.T) {
	store := NewMaterialStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaterialStore_ListPreservesInsertionOrder(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, newMaterial(id, "Title "+id)))
	}

	materials, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, "c", materials[0].ID)
	assert.Equal(t, "a", materials[1].ID)
	assert.Equal(t, "b", materials[2].ID)
}

func TestMaterialStore_Delete(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newMaterial("m1", "Doomed")))
	require.NoError(t, store.Delete(ctx, "m1"))

	_, err := store.Get(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "m1"), domain.ErrNotFound)
}

func TestMaterialStore_EmbeddedListings(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newMaterial("pending", "Pending")))
	require.NoError(t, store.Save(ctx, newMaterial("bare", "Processed without vector")))
	require.NoError(t, store.Save(ctx, newMaterial("vec", "Processed with vector")))

	require.NoError(t, store.SetInsights(ctx, "bare", "insights"))
	require.NoError(t, store.SetInsights(ctx, "vec", "insights"))
	require.NoError(t, store.SetEmbedding(ctx, "vec", []float32{1, 0, 0}))

	embedded, err := store.ListEmbedded(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 1)
	assert.Equal(t, "vec", embedded[0].ID)

	missing, err := store.ListMissingEmbedding(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "bare", missing[0].ID)
}

func TestMaterialStore_ListByCategory(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newMaterial("m1", "CBT Manual", "cbt")))
	require.NoError(t, store.Save(ctx, newMaterial("m2", "ACT Guide", "act")))
	require.NoError(t, store.Save(ctx, newMaterial("m3", "CBT Cases", "cbt")))
	require.NoError(t, store.SetInsights(ctx, "m1", "insights"))
	require.NoError(t, store.SetInsights(ctx, "m2", "insights"))
	// m3 stays pending, so it must not be listed.

	cbt, err := store.ListByCategory(ctx, "cbt")
	require.NoError(t, err)
	require.Len(t, cbt, 1)
	assert.Equal(t, "m1", cbt[0].ID)
}

func TestMaterialStore_SetInsightsMarksProcessed(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newMaterial("m1", "Doc")))
	require.NoError(t, store.UpdateStatus(ctx, "m1", domain.StatusProcessing))
	require.NoError(t, store.SetInsights(ctx, "m1", "the insights"))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, got.Status)
	assert.Equal(t, "the insights", got.Insights)
}

func TestMaterialStore_SetEmbeddingCopies(t *testing.T) {
	store := NewMaterialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newMaterial("m1", "Doc")))
	require.NoError(t, store.SetInsights(ctx, "m1", "insights"))

	vec := []float32{0.1, 0.2, 0.3}
	require.NoError(t, store.SetEmbedding(ctx, "m1", vec))
	vec[0] = 99

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, float32(0.1), got.Embedding[0])
}
