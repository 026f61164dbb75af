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

// CategoryStore manages portfolio categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, title, cover_image, sort_order`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Title, &c.CoverImage, &c.Position)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in canonical display order, with photo counts.
// Sort order is never assumed contiguous — ordering is always computed by
// sorting on (sort_order, id).
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.cover_image, c.sort_order,
		       COUNT(p.id) AS photo_count
		FROM categories c
		LEFT JOIN photos p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.Title, &c.CoverImage, &c.Position, &c.PhotoCount)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// IDs returns the ids of all categories in canonical display order.
// Used to validate that a reorder request covers the whole collection.
func (s *CategoryStore) IDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("category ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category at the given sort position and returns it.
func (s *CategoryStore) Create(id, title string, position int) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (id, title, sort_order)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		id, title, position,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Rename updates the display title only. The id keeps the slug of the
// original title.
func (s *CategoryStore) Rename(id, title string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE categories SET title = $1, updated_at = NOW() WHERE id = $2
	`, title, id)
	if err != nil {
		return false, fmt.Errorf("rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rename category rows: %w", err)
	}
	return n > 0, nil
}

// SetCover sets the cover image reference unconditionally. The value is
// not checked against the category's own photos; clearing a cover is
// setting it to the empty string.
func (s *CategoryStore) SetCover(id, src string) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE categories SET cover_image = NULLIF($1, ''), updated_at = NOW() WHERE id = $2
	`, src, id)
	if err != nil {
		return false, fmt.Errorf("set category cover: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set category cover rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a category by ID. Its photos are cascade-deleted by the
// foreign key. Returns false if no such category existed.
func (s *CategoryStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows: %w", err)
	}
	return n > 0, nil
}

// Reorder rewrites every category's sort_order to its 0-based index in
// ids. The full-collection renumbering runs in one transaction, so a
// failure leaves the previous order committed.
func (s *CategoryStore) Reorder(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE categories SET sort_order = $1, updated_at = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, id := range ids {
		if _, err := stmt.Exec(i, now, id); err != nil {
			return fmt.Errorf("reorder category %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// NextSortOrder returns the sort_order for a category appended at the end:
// max(sort_order)+1, or 0 for an empty collection.
func (s *CategoryStore) NextSortOrder() (int, error) {
	var maxOrder sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(sort_order) FROM categories`).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
