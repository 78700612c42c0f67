package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sessio-labs/sessio-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/sessio-labs/sessio-cli/internal/core/domain"
	"github.com/sessio-labs/sessio-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MaterialStore = (*Store)(nil)

// materialColumns is the column list shared by every material query.
const materialColumns = "id, title, content, insights, categories, status, embedding, created_at, updated_at"

// Store is a SQLite-backed material store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sessio/data/materials.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sessio", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "materials.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or updates a material. New materials get the next
// position, so listings come back in insertion order.
func (s *Store) Save(ctx context.Context, m *domain.Material) error {
	categoriesJSON, err := json.Marshal(m.Categories)
	if err != nil {
		return fmt.Errorf("marshalling categories: %w", err)
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO materials (id, title, content, insights, categories, status, embedding, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(position) FROM materials), 0) + 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			insights = excluded.insights,
			categories = excluded.categories,
			status = excluded.status,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, m.ID, m.Title, m.Content, m.Insights, string(categoriesJSON), string(m.Status),
		float32SliceToBytes(m.Embedding), m.CreatedAt, m.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving material: %w", err)
	}
	return nil
}

// Get retrieves a material by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Material, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE id = ?", id)
	return scanMaterial(row)
}

// Delete removes a material.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM materials WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting material: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all materials in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Material, error) {
	return s.query(ctx,
		"SELECT "+materialColumns+" FROM materials ORDER BY position")
}

// ListByCategory returns processed materials carrying the category.
func (s *Store) ListByCategory(ctx context.Context, category string) ([]domain.Material, error) {
	// Categories are a small JSON array; filtering happens after the
	// scan rather than with JSON functions in the query.
	materials, err := s.query(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE status = ? ORDER BY position",
		string(domain.StatusProcessed))
	if err != nil {
		return nil, err
	}
	var filtered []domain.Material
	for _, m := range materials {
		for _, c := range m.Categories {
			if c == category {
				filtered = append(filtered, m)
				break
			}
		}
	}
	return filtered, nil
}

// ListEmbedded returns processed materials with an embedding, in
// corpus order.
func (s *Store) ListEmbedded(ctx context.Context) ([]domain.Material, error) {
	return s.query(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE status = ? AND embedding IS NOT NULL ORDER BY position",
		string(domain.StatusProcessed))
}

// ListMissingEmbedding returns processed materials without an embedding.
func (s *Store) ListMissingEmbedding(ctx context.Context) ([]domain.Material, error) {
	return s.query(ctx,
		"SELECT "+materialColumns+" FROM materials WHERE status = ? AND embedding IS NULL ORDER BY position",
		string(domain.StatusProcessed))
}

// UpdateStatus transitions a material's lifecycle status.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.MaterialStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE materials SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetInsights persists insights and marks the material processed.
func (s *Store) SetInsights(ctx context.Context, id, insights string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE materials SET insights = ?, status = ?, updated_at = ? WHERE id = ?",
		insights, string(domain.StatusProcessed), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting insights: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetEmbedding replaces a material's embedding in a single UPDATE, so
// a concurrent reader sees the old vector or the new one, never a mix.
func (s *Store) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE materials SET embedding = ?, updated_at = ? WHERE id = ?",
		float32SliceToBytes(embedding), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting embedding: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// query runs a material SELECT and scans all rows.
func (s *Store) query(ctx context.Context, q string, args ...any) ([]domain.Material, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying materials: %w", err)
	}
	defer rows.Close()

	var materials []domain.Material //nolint:prealloc // size unknown from query
	for rows.Next() {
		m, err := scanMaterialRows(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating materials: %w", err)
	}

	return materials, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanMaterial scans a single material row.
func scanMaterial(row *sql.Row) (*domain.Material, error) {
	var m domain.Material
	var categoriesJSON, status string
	var embeddingBlob []byte

	if err := row.Scan(&m.ID, &m.Title, &m.Content, &m.Insights, &categoriesJSON,
		&status, &embeddingBlob, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning material: %w", err)
	}

	if err := json.Unmarshal([]byte(categoriesJSON), &m.Categories); err != nil {
		return nil, fmt.Errorf("unmarshaling categories: %w", err)
	}
	m.Status = domain.MaterialStatus(status)
	m.Embedding = bytesToFloat32Slice(embeddingBlob)

	return &m, nil
}

// scanMaterialRows scans a material from *sql.Rows.
func scanMaterialRows(rows *sql.Rows) (*domain.Material, error) {
	var m domain.Material
	var categoriesJSON, status string
	var embeddingBlob []byte

	if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Insights, &categoriesJSON,
		&status, &embeddingBlob, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning material: %w", err)
	}

	if err := json.Unmarshal([]byte(categoriesJSON), &m.Categories); err != nil {
		return nil, fmt.Errorf("unmarshaling categories: %w", err)
	}
	m.Status = domain.MaterialStatus(status)
	m.Embedding = bytesToFloat32Slice(embeddingBlob)

	return &m, nil
}
