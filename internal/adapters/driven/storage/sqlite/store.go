package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/archivist-labs/docqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/archivist-labs/docqa/internal/core/domain"
	"github.com/archivist-labs/docqa/internal/core/ports/driven"
)

var _ driven.ChunkStore = (*Store)(nil)

// Store persists assembled chunks and source hashes in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the chunk database under dataDir. If
// dataDir is empty, defaults to ~/.docqa/data/chunks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

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
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
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

// SaveChunks replaces all chunks for the chunks' source file and
// records the source hash, atomically.
func (s *Store) SaveChunks(ctx context.Context, source domain.SourceInfo, chunks []domain.Chunk) error {
	if source.Filename == "" {
		return fmt.Errorf("%w: source filename is empty", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sources (filename, sha256) VALUES (?, ?)
		ON CONFLICT(filename) DO UPDATE SET sha256 = excluded.sha256, ingested_at = CURRENT_TIMESTAMP
	`, source.Filename, source.SHA256)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE filename = ?", source.Filename); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (filename, position, chunk_id, text, length, section, element_ids, pages, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		elementIDs, err := json.Marshal(c.ElementIDs)
		if err != nil {
			return fmt.Errorf("marshalling element ids: %w", err)
		}
		pages, err := json.Marshal(c.Pages)
		if err != nil {
			return fmt.Errorf("marshalling pages: %w", err)
		}
		var region any
		if c.Region != nil {
			data, err := json.Marshal(c.Region)
			if err != nil {
				return fmt.Errorf("marshalling region: %w", err)
			}
			region = string(data)
		}

		if _, err := stmt.ExecContext(ctx, source.Filename, i, c.ID, c.Text, c.Length, c.Section, string(elementIDs), string(pages), region); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ChunksBySource returns the stored chunks for a filename, in
// insertion order.
func (s *Store) ChunksBySource(ctx context.Context, filename string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.chunk_id, c.text, c.length, c.section, c.element_ids, c.pages, c.region, s.sha256
		FROM chunks c
		JOIN sources s ON s.filename = c.filename
		WHERE c.filename = ?
		ORDER BY c.position
	`, filename)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			c          domain.Chunk
			elementIDs string
			pages      string
			region     sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Text, &c.Length, &c.Section, &elementIDs, &pages, &region, &c.Source.SHA256); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Source.Filename = filename

		if err := json.Unmarshal([]byte(elementIDs), &c.ElementIDs); err != nil {
			return nil, fmt.Errorf("unmarshalling element ids: %w", err)
		}
		if err := json.Unmarshal([]byte(pages), &c.Pages); err != nil {
			return nil, fmt.Errorf("unmarshalling pages: %w", err)
		}
		if region.Valid {
			var r domain.Region
			if err := json.Unmarshal([]byte(region.String), &r); err != nil {
				return nil, fmt.Errorf("unmarshalling region: %w", err)
			}
			c.Region = &r
		}

		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// SourceHash returns the recorded content hash for a filename.
func (s *Store) SourceHash(ctx context.Context, filename string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT sha256 FROM sources WHERE filename = ?", filename).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("source %s: %w", filename, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("querying source hash: %w", err)
	}
	return hash, nil
}

// Sources lists every ingested file, ordered by filename.
func (s *Store) Sources(ctx context.Context) ([]domain.SourceInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT filename, sha256 FROM sources ORDER BY filename")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.SourceInfo
	for rows.Next() {
		var src domain.SourceInfo
		if err := rows.Scan(&src.Filename, &src.SHA256); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// DeleteSource removes a file's chunks and its hash record.
func (s *Store) DeleteSource(ctx context.Context, filename string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE filename = ?", filename); err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}
