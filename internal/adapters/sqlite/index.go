package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bite/internal/domain"
	"bite/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.TagIndex using SQLite
type Index struct {
	db      *sql.DB
	dataDir string
	dbPath  string
}

// Ensure Index implements TagIndex
var _ ports.TagIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index for the given data directory
func (idx *Index) Open(dataDir string) error {
	// Expand ~ in path
	if len(dataDir) > 0 && dataDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[1:])
	}

	idx.dataDir = dataDir
	idx.dbPath = databasePath(dataDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS images (
			hash TEXT PRIMARY KEY,
			rating INTEGER NOT NULL,
			locations TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS tags (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type INTEGER NOT NULL,
			depth INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS image_tags (
			hash TEXT NOT NULL,
			tag_path TEXT NOT NULL,
			PRIMARY KEY (hash, tag_path)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_image_tags_tag ON image_tags(tag_path);
		CREATE INDEX IF NOT EXISTS idx_images_rating ON images(rating);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the location of the index database file
func (idx *Index) Path() string {
	return idx.dbPath
}

// databasePath returns the path for the SQLite database
func databasePath(dataDir string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "bite", "index", hashDataDir(dataDir)+".db")
}

// hashDataDir returns a short hash of the data directory
func hashDataDir(dataDir string) string {
	h := sha256.Sum256([]byte(dataDir))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta updates the schema version and data directory hash
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('data_dir_hash', ?);
	`, schemaVersion, hashDataDir(idx.dataDir))
	return err
}

// FindImages returns the hashes of images matching every condition of q,
// ordered by rating (highest first) then hash
func (idx *Index) FindImages(ctx context.Context, q ports.ImageQuery) ([]string, error) {
	var (
		where []string
		args  []any
	)

	if q.MinRating > 0 {
		where = append(where, "i.rating >= ?")
		args = append(args, q.MinRating)
	}
	for _, tag := range q.AllTags {
		where = append(where, "EXISTS (SELECT 1 FROM image_tags t WHERE t.hash = i.hash AND t.tag_path = ?)")
		args = append(args, tag)
	}
	if len(q.AnyTags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.AnyTags)), ",")
		where = append(where, "EXISTS (SELECT 1 FROM image_tags t WHERE t.hash = i.hash AND t.tag_path IN ("+placeholders+"))")
		for _, tag := range q.AnyTags {
			args = append(args, tag)
		}
	}

	query := "SELECT i.hash FROM images i"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY i.rating DESC, i.hash"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, err
		}
		hashes = append(hashes, hash)
	}

	return hashes, rows.Err()
}

// TagCounts returns every tag with the number of images bearing it, most
// used first
func (idx *Index) TagCounts(ctx context.Context) ([]ports.TagCount, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT t.path, t.type, COUNT(it.hash)
		FROM tags t
		LEFT JOIN image_tags it ON it.tag_path = t.path
		GROUP BY t.path, t.type
		ORDER BY COUNT(it.hash) DESC, t.path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ports.TagCount
	for rows.Next() {
		var c ports.TagCount
		var typ int
		if err := rows.Scan(&c.Path, &typ, &c.Count); err != nil {
			return nil, err
		}
		c.Type = domain.TagType(typ)
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// beginTx starts a new transaction
func (idx *Index) beginTx() (*indexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
