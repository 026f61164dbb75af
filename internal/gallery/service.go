// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gallery is the mutation surface for the portfolio's two ordered
// collections: categories and photos-within-category. Every admin mutation
// goes through the Service, which validates input, performs the store
// operation, and invalidates the affected cached pages. Handlers and the
// admin client mirror both sit on top of it.
package gallery

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fstop/internal/cache"
	"fstop/internal/models"
	"fstop/internal/slug"
	"fstop/internal/store"
)

// Service validates and executes gallery mutations. It is stateless
// between calls; the database is the sole source of truth. Two admin
// sessions mutating the same collection race as last-write-wins.
type Service struct {
	categories *store.CategoryStore
	photos     *store.PhotoStore
	pageCache  *cache.PageCache // may be nil (cache disabled)
}

// NewService creates a gallery service. pageCache may be nil, in which
// case mutations skip cache invalidation.
func NewService(categories *store.CategoryStore, photos *store.PhotoStore, pageCache *cache.PageCache) *Service {
	return &Service{
		categories: categories,
		photos:     photos,
		pageCache:  pageCache,
	}
}

// PhotoInput describes one photo to add: the stored image URLs plus an
// optional caption. Src is opaque to this layer.
type PhotoInput struct {
	Src      string
	ThumbSrc string
	Caption  string
}

// PhotoUpdate carries a partial caption/description update. Nil fields
// are left unchanged.
type PhotoUpdate struct {
	Caption     *string
	Description *string
}

// Categories returns all categories with photo counts in display order.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List()
}

// CategoryWithPhotos returns one category with its photos populated in
// display order, or nil if it does not exist.
func (s *Service) CategoryWithPhotos(ctx context.Context, id string) (*models.Category, error) {
	cat, err := s.categories.FindByID(id)
	if err != nil || cat == nil {
		return cat, err
	}
	photos, err := s.photos.ListByCategory(id)
	if err != nil {
		return nil, err
	}
	cat.Photos = photos
	cat.PhotoCount = len(photos)
	return cat, nil
}

// CreateCategory derives an id from the title and inserts the category at
// the end of the display order.
func (s *Service) CreateCategory(ctx context.Context, title string) (*models.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	id := slug.Generate(title)
	if id == "" {
		return nil, fmt.Errorf("%w: title %q does not yield a usable id", ErrInvalidInput, title)
	}

	existing, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrInvalidInput, id)
	}

	pos, err := s.categories.NextSortOrder()
	if err != nil {
		return nil, fmt.Errorf("next category position: %w", err)
	}

	created, err := s.categories.Create(id, title, pos)
	if err != nil {
		return nil, err
	}

	s.invalidateHome(ctx)
	return created, nil
}

// DeleteCategory removes a category and, via the cascade, all its photos.
// Deleting an already-deleted category is a no-op.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.Delete(id); err != nil {
		return err
	}
	s.invalidateHome(ctx)
	s.invalidateGallery(ctx, id)
	return nil
}

// RenameCategory updates the display title. The id stays the slug of the
// original title.
func (s *Service) RenameCategory(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	ok, err := s.categories.Rename(id, title)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: category %q", ErrNotFound, id)
	}

	s.invalidateHome(ctx)
	s.invalidateGallery(ctx, id)
	return nil
}

// ReorderCategories renumbers every category to its index in ids. The
// list must be a permutation of the whole collection; a partial or
// foreign list is rejected before anything is written.
func (s *Service) ReorderCategories(ctx context.Context, ids []string) error {
	current, err := s.categories.IDs()
	if err != nil {
		return err
	}
	if err := checkReorderList(ids, current); err != nil {
		return err
	}

	if err := s.categories.Reorder(ids); err != nil {
		return err
	}

	s.invalidateHome(ctx)
	return nil
}

// SetCategoryCover sets the cover image unconditionally. The reference is
// not validated against the category's photos, so deleting that photo
// later leaves a dangling cover the admin fixes by picking a new one.
// Setting the empty string clears the cover.
func (s *Service) SetCategoryCover(ctx context.Context, id, src string) error {
	if _, err := s.categories.SetCover(id, src); err != nil {
		return err
	}
	s.invalidateHome(ctx)
	return nil
}

// AddPhoto appends one photo to a category. If the category had no photos
// before this insert, the new photo becomes its cover. The check is the
// post-insert photo count, not cover nullness: a category whose cover was
// explicitly cleared does not re-trigger the default on later uploads.
func (s *Service) AddPhoto(ctx context.Context, categoryID string, in PhotoInput) (*models.Photo, error) {
	if in.Src == "" {
		return nil, fmt.Errorf("%w: photo src is required", ErrInvalidInput)
	}

	cat, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, categoryID)
	}

	pos, err := s.photos.NextSortOrder(categoryID)
	if err != nil {
		return nil, fmt.Errorf("next photo position: %w", err)
	}

	created, err := s.photos.Create(&models.Photo{
		ID:         uuid.New().String(),
		CategoryID: categoryID,
		Src:        in.Src,
		ThumbSrc:   in.ThumbSrc,
		Caption:    in.Caption,
		Position:   pos,
	})
	if err != nil {
		return nil, err
	}

	count, err := s.photos.CountByCategory(categoryID)
	if err != nil {
		return nil, fmt.Errorf("count after insert: %w", err)
	}
	if count == 1 {
		if _, err := s.categories.SetCover(categoryID, created.Src); err != nil {
			return nil, fmt.Errorf("default cover: %w", err)
		}
	}

	s.invalidateHome(ctx)
	s.invalidateGallery(ctx, categoryID)
	return created, nil
}

// AddPhotos appends a batch of photos. Each insert is independent: if
// some fail, the successful subset stays committed and the returned
// error is a *PartialError with the counts. A fully failed batch returns
// the first error directly.
func (s *Service) AddPhotos(ctx context.Context, categoryID string, inputs []PhotoInput) ([]models.Photo, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no photos supplied", ErrInvalidInput)
	}

	var created []models.Photo
	var errs []error
	for _, in := range inputs {
		p, err := s.AddPhoto(ctx, categoryID, in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		created = append(created, *p)
	}

	switch {
	case len(errs) == 0:
		return created, nil
	case len(created) == 0:
		return nil, errs[0]
	default:
		return created, &PartialError{
			Succeeded: len(created),
			Failed:    len(errs),
			Errs:      errs,
		}
	}
}

// DeletePhoto removes a single photo. Returns the deleted row, or nil
// if the photo was already gone.
func (s *Service) DeletePhoto(ctx context.Context, categoryID, photoID string) (*models.Photo, error) {
	deleted, err := s.DeletePhotos(ctx, categoryID, []string{photoID})
	if err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return nil, nil
	}
	return &deleted[0], nil
}

// DeletePhotos removes a set of photos from one category. Unknown ids
// are ignored; the cover reference is deliberately not repaired if a
// deleted photo was the cover. Returns the deleted rows so the caller
// can clean up stored files.
func (s *Service) DeletePhotos(ctx context.Context, categoryID string, photoIDs []string) ([]models.Photo, error) {
	deleted, err := s.photos.DeleteMany(categoryID, photoIDs)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		s.invalidateHome(ctx)
		s.invalidateGallery(ctx, categoryID)
	}
	return deleted, nil
}

// UpdatePhoto applies a partial caption/description update. Updating a
// photo that no longer exists is a no-op, matching delete semantics.
func (s *Service) UpdatePhoto(ctx context.Context, categoryID, photoID string, upd PhotoUpdate) error {
	ok, err := s.photos.UpdateText(categoryID, photoID, upd.Caption, upd.Description)
	if err != nil {
		return err
	}
	if ok {
		s.invalidateGallery(ctx, categoryID)
	}
	return nil
}

// ReorderPhotos renumbers a category's photos to their index in ids.
// Same permutation requirement as ReorderCategories.
func (s *Service) ReorderPhotos(ctx context.Context, categoryID string, ids []string) error {
	current, err := s.photos.IDsByCategory(categoryID)
	if err != nil {
		return err
	}
	if err := checkReorderList(ids, current); err != nil {
		return err
	}

	if err := s.photos.Reorder(categoryID, ids); err != nil {
		return err
	}

	s.invalidateGallery(ctx, categoryID)
	return nil
}

func (s *Service) invalidateHome(ctx context.Context) {
	if s.pageCache != nil {
		s.pageCache.InvalidateHome(ctx)
	}
}

func (s *Service) invalidateGallery(ctx context.Context, categoryID string) {
	if s.pageCache != nil {
		s.pageCache.InvalidateGallery(ctx, categoryID)
	}
}
