// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"fstop/internal/models"
)

// PhotoStore manages photos within their owning categories.
type PhotoStore struct {
	db *sql.DB
}

// NewPhotoStore returns a new PhotoStore.
func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

const photoColumns = `id, category_id, src, thumb_src, caption, description, sort_order`

// scanPhoto scans a row into a Photo struct.
func scanPhoto(scanner interface{ Scan(...any) error }) (*models.Photo, error) {
	var p models.Photo
	err := scanner.Scan(
		&p.ID, &p.CategoryID, &p.Src, &p.ThumbSrc,
		&p.Caption, &p.Description, &p.Position,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByCategory returns a category's photos in canonical display order.
func (s *PhotoStore) ListByCategory(categoryID string) ([]models.Photo, error) {
	rows, err := s.db.Query(`
		SELECT `+photoColumns+`
		FROM photos
		WHERE category_id = $1
		ORDER BY sort_order, id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var items []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// IDsByCategory returns the photo ids of one category in canonical order.
// Used to validate that a reorder request covers the whole collection.
func (s *PhotoStore) IDsByCategory(categoryID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT id FROM photos WHERE category_id = $1 ORDER BY sort_order, id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("photo ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan photo id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FindByID retrieves a photo by its globally unique id. Returns nil if
// not found.
func (s *PhotoStore) FindByID(id string) (*models.Photo, error) {
	row := s.db.QueryRow(`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)
	p, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find photo by id: %w", err)
	}
	return p, nil
}

// Create inserts a new photo and returns it.
func (s *PhotoStore) Create(p *models.Photo) (*models.Photo, error) {
	row := s.db.QueryRow(`
		INSERT INTO photos (id, category_id, src, thumb_src, caption, description, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+photoColumns,
		p.ID, p.CategoryID, p.Src, p.ThumbSrc, p.Caption, p.Description, p.Position,
	)
	created, err := scanPhoto(row)
	if err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return created, nil
}

// UpdateText updates caption and/or description. A nil field is left
// untouched, so callers can change one without resending the other.
// Returns false if the photo does not exist in the given category.
func (s *PhotoStore) UpdateText(categoryID, id string, caption, description *string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE photos SET
			caption = COALESCE($1, caption),
			description = COALESCE($2, description),
			updated_at = NOW()
		WHERE id = $3 AND category_id = $4
	`, caption, description, id, categoryID)
	if err != nil {
		return false, fmt.Errorf("update photo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update photo rows: %w", err)
	}
	return n > 0, nil
}

// DeleteMany removes a set of photos scoped to one category and returns
// the deleted rows so the caller can clean up stored image files.
// Ids that don't match an existing photo in the category are ignored.
// Sibling positions are left as-is — gaps are permitted and never compacted.
func (s *PhotoStore) DeleteMany(categoryID string, ids []string) ([]models.Photo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		DELETE FROM photos
		WHERE category_id = $1 AND id = ANY($2)
		RETURNING `+photoColumns,
		categoryID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("delete photos: %w", err)
	}
	defer rows.Close()

	var deleted []models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted photo: %w", err)
		}
		deleted = append(deleted, *p)
	}
	return deleted, rows.Err()
}

// Reorder rewrites every photo's sort_order to its 0-based index in ids,
// scoped to one category. Runs in one transaction.
func (s *PhotoStore) Reorder(categoryID string, ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE photos SET sort_order = $1, updated_at = $2
		WHERE id = $3 AND category_id = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, id := range ids {
		if _, err := stmt.Exec(i, now, id, categoryID); err != nil {
			return fmt.Errorf("reorder photo %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// NextSortOrder returns the sort_order for a photo appended at the end of
// its category: max(sort_order)+1, or 0 for an empty category.
func (s *PhotoStore) NextSortOrder(categoryID string) (int, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(sort_order) FROM photos WHERE category_id = $1
	`, categoryID).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// CountByCategory returns the number of photos in a category.
func (s *PhotoStore) CountByCategory(categoryID string) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM photos WHERE category_id = $1
	`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}

// Count returns the total number of photos across all categories.
func (s *PhotoStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count all photos: %w", err)
	}
	return count, nil
}
