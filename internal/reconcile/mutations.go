// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fstop/internal/gallery"
	"fstop/internal/models"
)

// CreateCategory appends a placeholder category to the mirror, dispatches
// the create, and swaps in the server-confirmed entity (real id,
// canonical position) on success.
func (m *Mirror) CreateCategory(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	pid := placeholderID()

	return m.run(ctx, "createCategory", scopeCategories,
		func() {
			m.cats = append(m.cats, models.Category{
				ID:       pid,
				Title:    title,
				Position: m.nextCategoryPosition(),
			})
		},
		func(ctx context.Context) (func(), error) {
			created, err := m.gateway.CreateCategory(ctx, title)
			if err != nil {
				return nil, err
			}
			return func() {
				for i := range m.cats {
					if m.cats[i].ID == pid {
						m.cats[i] = cloneCategory(*created)
						return
					}
				}
			}, nil
		},
	)
}

// DeleteCategory removes the category (and its mirrored photos with it)
// before the gateway call returns; a failure puts it back.
func (m *Mirror) DeleteCategory(ctx context.Context, id string) error {
	return m.run(ctx, "deleteCategory", scopeCategories,
		func() { m.removeCategory(id) },
		func(ctx context.Context) (func(), error) {
			return nil, m.gateway.DeleteCategory(ctx, id)
		},
	)
}

// RenameCategory updates the title in place. The id never changes.
func (m *Mirror) RenameCategory(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	return m.run(ctx, "renameCategory", scopeCategories,
		func() {
			if c := m.find(id); c != nil {
				c.Title = title
			}
		},
		func(ctx context.Context) (func(), error) {
			return nil, m.gateway.RenameCategory(ctx, id, title)
		},
	)
}

// ReorderCategories shows the new order immediately — a drag must never
// flicker back to the old order while the request is in flight — and
// restores the pre-drag order only if the gateway rejects it.
func (m *Mirror) ReorderCategories(ctx context.Context, ids []string) error {
	return m.run(ctx, "reorderCategories", scopeCategories,
		func() { m.cats = reorderedCategories(m.cats, ids) },
		func(ctx context.Context) (func(), error) {
			return nil, m.gateway.ReorderCategories(ctx, ids)
		},
	)
}

// SetCategoryCover sets or clears (src == "") the cover reference.
func (m *Mirror) SetCategoryCover(ctx context.Context, id, src string) error {
	return m.run(ctx, "updateCategoryCover", scopeCategories,
		func() {
			c := m.find(id)
			if c == nil {
				return
			}
			if src == "" {
				c.CoverImage = nil
			} else {
				cover := src
				c.CoverImage = &cover
			}
		},
		func(ctx context.Context) (func(), error) {
			return nil, m.gateway.SetCategoryCover(ctx, id, src)
		},
	)
}

// AddPhoto appends a placeholder photo and applies the first-photo cover
// default locally, then swaps in the server-confirmed photo.
func (m *Mirror) AddPhoto(ctx context.Context, categoryID string, in gallery.PhotoInput) error {
	pid := placeholderID()

	return m.run(ctx, "addPhoto", scopePhotos(categoryID),
		func() { m.appendPlaceholderPhoto(categoryID, pid, in) },
		func(ctx context.Context) (func(), error) {
			created, err := m.gateway.AddPhoto(ctx, categoryID, in)
			if err != nil {
				return nil, err
			}
			return func() { m.replacePhoto(categoryID, pid, *created) }, nil
		},
	)
}

// AddPhotos appends placeholders for the whole batch, fans the uploads
// out as independent gateway calls, and waits for all of them to settle.
// Successful photos replace their placeholders; failed placeholders are
// removed. Only a batch with zero successes rolls back; anything mixed
// commits the successful subset and returns *gallery.PartialError.
func (m *Mirror) AddPhotos(ctx context.Context, categoryID string, inputs []gallery.PhotoInput) error {
	// Same rejection as the server side: an empty batch never touches
	// the mirror or takes the scope.
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no photos supplied", gallery.ErrInvalidInput)
	}

	pids := make([]string, len(inputs))
	for i := range inputs {
		pids[i] = placeholderID()
	}

	return m.run(ctx, "addPhotos", scopePhotos(categoryID),
		func() {
			for i, in := range inputs {
				m.appendPlaceholderPhoto(categoryID, pids[i], in)
			}
		},
		func(ctx context.Context) (func(), error) {
			photos := make([]*models.Photo, len(inputs))
			errs := make([]error, len(inputs))

			var wg sync.WaitGroup
			for i, in := range inputs {
				wg.Add(1)
				go func(i int, in gallery.PhotoInput) {
					defer wg.Done()
					photos[i], errs[i] = m.gateway.AddPhoto(ctx, categoryID, in)
				}(i, in)
			}
			wg.Wait()

			var failed []error
			succeeded := 0
			for _, err := range errs {
				if err != nil {
					failed = append(failed, err)
				} else {
					succeeded++
				}
			}

			if succeeded == 0 {
				return nil, failed[0]
			}

			commit := func() {
				for i := range inputs {
					if errs[i] != nil {
						m.removePhoto(categoryID, pids[i])
						continue
					}
					m.replacePhoto(categoryID, pids[i], *photos[i])
				}
			}

			if len(failed) > 0 {
				return commit, &gallery.PartialError{
					Succeeded: succeeded,
					Failed:    len(failed),
					Errs:      failed,
				}
			}
			return commit, nil
		},
	)
}

// DeletePhoto removes a single photo from the mirror and the server.
func (m *Mirror) DeletePhoto(ctx context.Context, categoryID, photoID string) error {
	return m.DeletePhotos(ctx, categoryID, []string{photoID})
}

// DeletePhotos removes the photos from the mirror immediately. Ids the
// server no longer knows are tolerated as no-ops on both sides. The
// cover reference is left alone even if a deleted photo was the cover.
func (m *Mirror) DeletePhotos(ctx context.Context, categoryID string, photoIDs []string) error {
	return m.run(ctx, "deletePhotos", scopePhotos(categoryID),
		func() {
			for _, id := range photoIDs {
				m.removePhoto(categoryID, id)
			}
		},
		func(ctx context.Context) (func(), error) {
			_, err := m.gateway.DeletePhotos(ctx, categoryID, photoIDs)
			return nil, err
		},
	)
}

// UpdatePhoto applies a partial caption/description edit.
func (m *Mirror) UpdatePhoto(ctx context.Context, categoryID, photoID string, upd gallery.PhotoUpdate) error {
	return m.run(ctx, "updatePhoto", scopePhotos(categoryID),
		func() {
			c := m.find(categoryID)
			if c == nil {
				return
			}
			for i := range c.Photos {
				if c.Photos[i].ID != photoID {
					continue
				}
				if upd.Caption != nil {
					c.Photos[i].Caption = *upd.Caption
				}
				if upd.Description != nil {
					c.Photos[i].Description = *upd.Description
				}
				return
			}
		},
		func(ctx context.Context) (func(), error) {
			return nil, m.gateway.UpdatePhoto(ctx, categoryID, photoID, upd)
		},
	)
}

// ReorderPhotos is the photo-collection twin of ReorderCategories.
func (m *Mirror) ReorderPhotos(ctx context.Context, categoryID string, ids []string) error {
	return m.run(ctx, "reorderPhotos", scopePhotos(categoryID),
		func() {
			if c := m.find(categoryID); c != nil {
				c.Photos = reorderedPhotos(c.Photos, ids)
			}
		},
		func(ctx context.Context) (func(), error) {
			return nil, m.gateway.ReorderPhotos(ctx, categoryID, ids)
		},
	)
}

// --- mirror-side helpers (callers hold the lock via run) ---

func (m *Mirror) nextCategoryPosition() int {
	next := 0
	for _, c := range m.cats {
		if c.Position >= next {
			next = c.Position + 1
		}
	}
	return next
}

func (m *Mirror) removeCategory(id string) {
	for i := range m.cats {
		if m.cats[i].ID == id {
			m.cats = append(m.cats[:i], m.cats[i+1:]...)
			return
		}
	}
}

// appendPlaceholderPhoto mirrors the insert policy: append at max+1 and
// apply the first-photo cover default by post-insert count.
func (m *Mirror) appendPlaceholderPhoto(categoryID, pid string, in gallery.PhotoInput) {
	c := m.find(categoryID)
	if c == nil {
		return
	}

	next := 0
	for _, p := range c.Photos {
		if p.Position >= next {
			next = p.Position + 1
		}
	}

	c.Photos = append(c.Photos, models.Photo{
		ID:         pid,
		CategoryID: categoryID,
		Src:        in.Src,
		ThumbSrc:   in.ThumbSrc,
		Caption:    in.Caption,
		Position:   next,
	})
	c.PhotoCount = len(c.Photos)

	if len(c.Photos) == 1 {
		cover := in.Src
		c.CoverImage = &cover
	}
}

func (m *Mirror) replacePhoto(categoryID, pid string, confirmed models.Photo) {
	c := m.find(categoryID)
	if c == nil {
		return
	}
	for i := range c.Photos {
		if c.Photos[i].ID == pid {
			c.Photos[i] = confirmed
			return
		}
	}
}

func (m *Mirror) removePhoto(categoryID, id string) {
	c := m.find(categoryID)
	if c == nil {
		return
	}
	for i := range c.Photos {
		if c.Photos[i].ID == id {
			c.Photos = append(c.Photos[:i], c.Photos[i+1:]...)
			c.PhotoCount = len(c.Photos)
			return
		}
	}
}

// reorderedCategories rebuilds the slice in the order of ids, renumbering
// positions to the 0-based index exactly as the store will. Entries not
// named in ids (a stale mirror) keep their relative order at the end.
func reorderedCategories(cats []models.Category, ids []string) []models.Category {
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c.ID] = i
	}

	result := make([]models.Category, 0, len(cats))
	taken := make(map[string]bool, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok && !taken[id] {
			result = append(result, cats[i])
			taken[id] = true
		}
	}
	for _, c := range cats {
		if !taken[c.ID] {
			result = append(result, c)
		}
	}
	for i := range result {
		result[i].Position = i
	}
	return result
}

func reorderedPhotos(photos []models.Photo, ids []string) []models.Photo {
	index := make(map[string]int, len(photos))
	for i, p := range photos {
		index[p.ID] = i
	}

	result := make([]models.Photo, 0, len(photos))
	taken := make(map[string]bool, len(ids))
	for _, id := range ids {
		if i, ok := index[id]; ok && !taken[id] {
			result = append(result, photos[i])
			taken[id] = true
		}
	}
	for _, p := range photos {
		if !taken[p.ID] {
			result = append(result, p)
		}
	}
	for i := range result {
		result[i].Position = i
	}
	return result
}
