package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
)

// Ensure MaterialStore implements the interface.
var _ driven.MaterialStore = (*MaterialStore)(nil)

// MaterialStore is an in-memory implementation of driven.MaterialStore.
// Listings preserve insertion order, so repeated scans over an
// unchanged corpus see the same ordering.
type MaterialStore struct {
	mu        sync.RWMutex
	materials map[string]domain.Material
	order     []string
}

// NewMaterialStore creates a new in-memory material store.
func NewMaterialStore() *MaterialStore {
	return &MaterialStore{
		materials: make(map[string]domain.Material),
	}
}

// Save stores or updates a material.
func (s *MaterialStore) Save(_ context.Context, m *domain.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[m.ID]; !ok {
		s.order = append(s.order, m.ID)
	}
	s.materials[m.ID] = cloneMaterial(*m)
	return nil
}

// Get retrieves a material by ID.
func (s *MaterialStore) Get(_ context.Context, id string) (*domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m = cloneMaterial(m)
	return &m, nil
}

// Delete removes a material.
func (s *MaterialStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.materials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.materials, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return nil
}

// List returns all materials in insertion order.
func (s *MaterialStore) List(_ context.Context) ([]domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(domain.Material) bool { return true }), nil
}

// ListByCategory returns processed materials carrying the category.
func (s *MaterialStore) ListByCategory(_ context.Context, category string) ([]domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(m domain.Material) bool {
		return m.Status == domain.StatusProcessed && slices.Contains(m.Categories, category)
	}), nil
}

// ListEmbedded returns processed materials with an embedding.
func (s *MaterialStore) ListEmbedded(_ context.Context) ([]domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(m domain.Material) bool {
		return m.Status == domain.StatusProcessed && m.Embedding != nil
	}), nil
}

// ListMissingEmbedding returns processed materials without an embedding.
func (s *MaterialStore) ListMissingEmbedding(_ context.Context) ([]domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(m domain.Material) bool {
		return m.Status == domain.StatusProcessed && m.Embedding == nil
	}), nil
}

// UpdateStatus transitions a material's lifecycle status.
func (s *MaterialStore) UpdateStatus(_ context.Context, id string, status domain.MaterialStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	s.materials[id] = m
	return nil
}

// SetInsights persists insights and marks the material processed.
func (s *MaterialStore) SetInsights(_ context.Context, id, insights string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Insights = insights
	m.Status = domain.StatusProcessed
	m.UpdatedAt = time.Now().UTC()
	s.materials[id] = m
	return nil
}

// SetEmbedding replaces a material's embedding. The stored vector is a
// private copy, so readers never observe a caller's later mutations.
func (s *MaterialStore) SetEmbedding(_ context.Context, id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Embedding = slices.Clone(embedding)
	m.UpdatedAt = time.Now().UTC()
	s.materials[id] = m
	return nil
}

// collect gathers materials in insertion order. Callers hold the lock.
func (s *MaterialStore) collect(keep func(domain.Material) bool) []domain.Material {
	var result []domain.Material
	for _, id := range s.order {
		if m, ok := s.materials[id]; ok && keep(m) {
			result = append(result, cloneMaterial(m))
		}
	}
	return result
}

func cloneMaterial(m domain.Material) domain.Material {
	m.Categories = slices.Clone(m.Categories)
	m.Embedding = slices.Clone(m.Embedding)
	return m
}
