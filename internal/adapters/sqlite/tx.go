package sqlite

import (
	"database/sql"
	"strings"

	"bite/internal/domain"
)

// indexTx wraps a transaction for atomic index rebuilds
type indexTx struct {
	tx *sql.Tx
}

// clear removes every row except metadata
func (t *indexTx) clear() error {
	for _, table := range []string{"image_tags", "images", "tags"} {
		if _, err := t.tx.Exec(`DELETE FROM ` + table); err != nil {
			return err
		}
	}
	return nil
}

// upsertTag inserts or updates a tag
func (t *indexTx) upsertTag(tag domain.Tag) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO tags (path, name, type, depth)
		VALUES (?, ?, ?, ?)
	`, tag.Path, tag.Name, int(tag.Type), tag.Depth())
	return err
}

// upsertImage inserts or updates an image
func (t *indexTx) upsertImage(img *domain.Image) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO images (hash, rating, locations)
		VALUES (?, ?, ?)
	`, img.Hash(), img.Rating(), strings.Join(img.Locations(), " "))
	return err
}

// insertAssignment links an image to a tag
func (t *indexTx) insertAssignment(hash, tagPath string) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO image_tags (hash, tag_path)
		VALUES (?, ?)
	`, hash, tagPath)
	return err
}

// commit commits the transaction
func (t *indexTx) commit() error {
	return t.tx.Commit()
}

// rollback aborts the transaction
func (t *indexTx) rollback() error {
	return t.tx.Rollback()
}
