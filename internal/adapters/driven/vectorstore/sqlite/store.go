// Package sqlite provides the persistent vector store. One database file
// exists per collection; vectors live alongside chunk rows and are held in
// memory for brute-force cosine search, so reopening a collection
// reconstructs an identical queryable state.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/aska-cli/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// scoreTolerance is the band within which two similarity scores are
// considered equal and ordered by chunk ID instead.
const scoreTolerance = 1e-9

// Meta keys recorded once at collection creation.
const (
	metaDimension = "dimension"
	metaName      = "collection"
)

// Store is a SQLite-backed vector store for a single collection.
// A single RWMutex per collection serializes insert/clear against search;
// distinct collections are distinct files with independent locks.
type Store struct {
	mu         sync.RWMutex
	db         *sql.DB
	path       string
	collection string
	dimension  int
	records    map[string]domain.Chunk
}

// NewStore opens (or creates) the collection database under dataDir.
// If dataDir is empty, defaults to ~/.aska/data. The embedding dimension
// is fixed at creation; reopening with a different dimension fails.
func NewStore(dataDir, collection string, dimension int) (*Store, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".aska", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, collection+".db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		collection: collection,
		dimension:  dimension,
		records:    make(map[string]domain.Chunk),
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", domain.ErrStoreUnavailable, err)
	}
	if err := s.ensureMeta(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadRecords(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: loading records: %v", domain.ErrStoreUnavailable, err)
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

// Insert stores a batch of chunks atomically. The batch is validated in
// full before the transaction starts, so a dimension mismatch anywhere
// persists nothing. Existing chunk IDs are upserted.
func (s *Store) Insert(ctx context.Context, chunks []domain.Chunk) (int, error) {
	for _, c := range chunks {
		if c.ID == "" {
			return 0, fmt.Errorf("%w: chunk without id", domain.ErrInvalidInput)
		}
		if len(c.Embedding) != s.dimension {
			return 0, fmt.Errorf("%w: chunk %s has dimension %d, collection expects %d",
				domain.ErrDimensionMismatch, c.ID, len(c.Embedding), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source_id, content, position, start_offset, page, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			content = excluded.content,
			position = excluded.position,
			start_offset = excluded.start_offset,
			page = excluded.page,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`)
	if err != nil {
		return 0, fmt.Errorf("%w: preparing statement: %v", domain.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		metadataJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		var page any
		if c.Page != nil {
			page = *c.Page
		}

		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		if _, err := stmt.ExecContext(ctx, c.ID, c.SourceID, c.Content, c.Position,
			c.StartOffset, page, float32SliceToBytes(c.Embedding), string(metadataJSON),
			createdAt); err != nil {
			return 0, fmt.Errorf("%w: saving chunk %s: %v", domain.ErrStoreUnavailable, c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing transaction: %v", domain.ErrStoreUnavailable, err)
	}

	// Mirror the committed batch into the search cache.
	for _, c := range chunks {
		s.records[c.ID] = c
	}
	return len(chunks), nil
}

// Search returns up to k chunks by descending cosine similarity.
func (s *Store) Search(_ context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, collection expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.ScoredChunk, 0, len(s.records))
	for _, c := range s.records {
		scored = append(scored, domain.ScoredChunk{
			Chunk: c,
			Score: cosineSimilarity(query, c.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if math.Abs(scored[i].Score-scored[j].Score) <= scoreTolerance {
			return scored[i].Chunk.ID < scored[j].Chunk.ID
		}
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Clear removes all records from the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("%w: clearing collection: %v", domain.ErrStoreUnavailable, err)
	}
	s.records = make(map[string]domain.Chunk)
	return nil
}

// Stats reports the collection state.
func (s *Store) Stats(_ context.Context) (*domain.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &domain.CollectionStats{
		TotalChunks: len(s.records),
		Collection:  s.collection,
		Dimension:   s.dimension,
	}, nil
}

// ensureMeta records the collection name and dimension on first open and
// verifies them on every subsequent open.
func (s *Store) ensureMeta() error {
	var stored string
	err := s.db.QueryRow("SELECT value FROM collection_meta WHERE key = ?", metaDimension).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec(`INSERT INTO collection_meta (key, value) VALUES (?, ?), (?, ?)`,
			metaDimension, strconv.Itoa(s.dimension), metaName, s.collection); err != nil {
			return fmt.Errorf("%w: recording collection meta: %v", domain.ErrStoreUnavailable, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: reading collection meta: %v", domain.ErrStoreUnavailable, err)
	}

	dim, err := strconv.Atoi(stored)
	if err != nil {
		return fmt.Errorf("%w: corrupt dimension meta %q", domain.ErrStoreUnavailable, stored)
	}
	if dim != s.dimension {
		return fmt.Errorf("%w: collection %s was created with dimension %d, configured %d",
			domain.ErrDimensionMismatch, s.collection, dim, s.dimension)
	}
	return nil
}

// loadRecords populates the in-memory search cache from disk.
func (s *Store) loadRecords() error {
	rows, err := s.db.Query(`
		SELECT id, source_id, content, position, start_offset, page, embedding, metadata, created_at
		FROM chunks
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return err
		}
		s.records[c.ID] = *c
	}
	return rows.Err()
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

	// Sort and run migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "0001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
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

// scanChunk scans a single chunk row.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var (
		c            domain.Chunk
		page         sql.NullInt64
		embedding    []byte
		metadataJSON sql.NullString
	)

	if err := rows.Scan(&c.ID, &c.SourceID, &c.Content, &c.Position, &c.StartOffset,
		&page, &embedding, &metadataJSON, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	if page.Valid {
		p := int(page.Int64)
		c.Page = &p
	}
	c.Embedding = bytesToFloat32Slice(embedding)

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &c.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling chunk metadata: %w", err)
		}
	}

	return &c, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// A zero vector yields 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
