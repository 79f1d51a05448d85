package sqlite

import (
	"fmt"
	"time"

	"bite/internal/domain"
	"bite/internal/ports"
)

// SyncFull replaces the contents of the index with db in one transaction
func (idx *Index) SyncFull(db *domain.Database) (*ports.SyncStats, error) {
	start := time.Now()
	stats := &ports.SyncStats{}

	tx, err := idx.beginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin sync: %w", err)
	}
	defer tx.rollback()

	if err := tx.clear(); err != nil {
		return nil, fmt.Errorf("failed to clear index: %w", err)
	}

	for _, tag := range db.Tags() {
		if err := tx.upsertTag(tag); err != nil {
			return nil, fmt.Errorf("failed to index tag %s: %w", tag.Path, err)
		}
		stats.Tags++
	}

	for _, hash := range db.Images() {
		img, err := db.Image(hash)
		if err != nil {
			return nil, err
		}
		if err := tx.upsertImage(img); err != nil {
			return nil, fmt.Errorf("failed to index image %s: %w", hash, err)
		}
		stats.Images++

		tags, err := db.ImageTags(hash)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if err := tx.insertAssignment(hash, tag); err != nil {
				return nil, fmt.Errorf("failed to index %s on %s: %w", tag, hash, err)
			}
			stats.Assignments++
		}
	}

	if _, err := tx.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		time.Now().Unix()); err != nil {
		return nil, err
	}

	if err := tx.commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
