package cli

import (
	"context"

	"github.com/sessio-labs/sessio-cli/internal/core/domain"
)

// --- Mock services for command tests ---

type mockAnalysis struct {
	result *domain.AnalysisResult
	err    error
}

func (m *mockAnalysis) AnalyzeSession(_ context.Context, _ string) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

type mockSearch struct {
	refs []domain.MaterialReference
	err  error
}

func (m *mockSearch) Search(_ context.Context, _ string, limit int, _ float64) ([]domain.MaterialReference, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.refs) {
		return m.refs[:limit], nil
	}
	return m.refs, nil
}

type mockTraining struct {
	materials map[string]*domain.Material
	processed []string
	deleted   []string
}

func newMockTraining() *mockTraining {
	return &mockTraining{materials: make(map[string]*domain.Material)}
}

func (m *mockTraining) AddMaterial(_ context.Context, title, content string, categories []string) (*domain.Material, error) {
	mat := &domain.Material{
		ID:         "mat-" + title,
		Title:      title,
		Content:    content,
		Categories: categories,
		Status:     domain.StatusPending,
	}
	m.materials[mat.ID] = mat
	return mat, nil
}

func (m *mockTraining) ProcessMaterial(_ context.Context, id string) (string, error) {
	mat, ok := m.materials[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	mat.Status = domain.StatusProcessed
	mat.Insights = "insights for " + mat.Title
	m.processed = append(m.processed, id)
	return mat.Insights, nil
}

func (m *mockTraining) ProcessMaterialAsync(id string) {
	m.processed = append(m.processed, id)
}

func (m *mockTraining) CancelProcessing(_ string) bool { return false }

func (m *mockTraining) RefreshEmbedding(_ context.Context, id string) error {
	mat, ok := m.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	mat.Embedding = []float32{1, 0, 0}
	return nil
}

func (m *mockTraining) RefreshAllEmbeddings(_ context.Context) (int, error) {
	n := 0
	for _, mat := range m.materials {
		if mat.Status == domain.StatusProcessed && mat.Embedding == nil {
			mat.Embedding = []float32{1, 0, 0}
			n++
		}
	}
	return n, nil
}

func (m *mockTraining) EnhanceSessionAnalysis(_ context.Context, _, category string) (string, error) {
	return "enhanced analysis for " + category, nil
}

func (m *mockTraining) GetMaterial(_ context.Context, id string) (*domain.Material, error) {
	mat, ok := m.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return mat, nil
}

func (m *mockTraining) ListMaterials(_ context.Context) ([]domain.Material, error) {
	var out []domain.Material
	for _, mat := range m.materials {
		out = append(out, *mat)
	}
	return out, nil
}

func (m *mockTraining) DeleteMaterial(_ context.Context, id string) error {
	if _, ok := m.materials[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.materials, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}

// setupTestServices wires mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	prevAnalysis := analysisService
	prevSearch := searchService
	prevTraining := trainingService
	prevExtractor := textExtractor

	analysisService = &mockAnalysis{
		result: &domain.AnalysisResult{
			Overview: "session overview",
			ThematicAnalysis: []domain.ThemeAnalysis{
				{
					Theme:            domain.Theme{Name: "work stress", Relevance: 8, Frequency: domain.FrequencyHigh},
					DetailedAnalysis: "detailed analysis",
				},
			},
		},
	}
	searchService = &mockSearch{
		refs: []domain.MaterialReference{
			{ID: "m1", Title: "CBT Basics", Similarity: 0.91},
			{ID: "m2", Title: "ACT Guide", Similarity: 0.84},
		},
	}
	trainingService = newMockTraining()
	textExtractor = &mockExtractor{text: "Therapist: hello\nClient: hi"}

	return func() {
		analysisService = prevAnalysis
		searchService = prevSearch
		trainingService = prevTraining
		textExtractor = prevExtractor
	}
}
