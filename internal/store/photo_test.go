// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"fstop/internal/models"
)

// newTestGallery creates a category with n photos and returns the
// category id plus the photo ids in insertion order.
func newTestGallery(t *testing.T, cats *CategoryStore, photos *PhotoStore, n int) (string, []string) {
	t.Helper()

	catID := testCategoryID("gallery")
	if _, err := cats.Create(catID, "Gallery", 0); err != nil {
		t.Fatalf("create category: %v", err)
	}

	var ids []string
	for i := 0; i < n; i++ {
		id := uuid.New().String()
		pos, err := photos.NextSortOrder(catID)
		if err != nil {
			t.Fatalf("next sort order: %v", err)
		}
		_, err = photos.Create(&models.Photo{
			ID:         id,
			CategoryID: catID,
			Src:        "https://cdn.example.com/" + id + ".jpg",
			Position:   pos,
		})
		if err != nil {
			t.Fatalf("create photo %d: %v", i, err)
		}
		ids = append(ids, id)
	}
	return catID, ids
}

func TestPhotoInsertOrder(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	photos := NewPhotoStore(db)

	catID, ids := newTestGallery(t, cats, photos, 3)
	t.Cleanup(func() { cleanCategories(t, db, catID) })

	// First photo in an empty collection takes position 0; appends take
	// max+1.
	list, err := photos.ListByCategory(catID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d photos, want 3", len(list))
	}
	for i, p := range list {
		if p.ID != ids[i] {
			t.Errorf("index %d: got %s, want %s", i, p.ID, ids[i])
		}
		if p.Position != i {
			t.Errorf("index %d: position = %d, want %d", i, p.Position, i)
		}
	}
}

func TestPhotoReorderThenDelete_CanonicalOrder(t *testing.T) {
	// Add A, B, C, reorder to [C, A, B], delete B: read order must be
	// exactly [C, A], with whatever stored gaps remain.
	db := testDB(t)
	cats := NewCategoryStore(db)
	photos := NewPhotoStore(db)

	catID, ids := newTestGallery(t, cats, photos, 3)
	t.Cleanup(func() { cleanCategories(t, db, catID) })
	a, b, c := ids[0], ids[1], ids[2]

	if err := photos.Reorder(catID, []string{c, a, b}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	deleted, err := photos.DeleteMany(catID, []string{b})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != b {
		t.Fatalf("DeleteMany returned %+v, want just %s", deleted, b)
	}

	list, err := photos.ListByCategory(catID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(list) != 2 || list[0].ID != c || list[1].ID != a {
		t.Fatalf("read order = %v, want [%s %s]", photoIDs(list), c, a)
	}
}

func TestPhotoDeleteMany_UnknownIDsIgnored(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	photos := NewPhotoStore(db)

	catID, ids := newTestGallery(t, cats, photos, 2)
	t.Cleanup(func() { cleanCategories(t, db, catID) })

	deleted, err := photos.DeleteMany(catID, []string{ids[0], "not-a-photo"})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != ids[0] {
		t.Fatalf("deleted %v, want just %s", photoIDs(deleted), ids[0])
	}
}

func TestPhotoDeleteMany_ScopedToCategory(t *testing.T) {
	// A photo id from another category must not be deletable through the
	// wrong category.
	db := testDB(t)
	cats := NewCategoryStore(db)
	photos := NewPhotoStore(db)

	catA, idsA := newTestGallery(t, cats, photos, 1)
	catB, _ := newTestGallery(t, cats, photos, 1)
	t.Cleanup(func() { cleanCategories(t, db, catA, catB) })

	deleted, err := photos.DeleteMany(catB, []string{idsA[0]})
	if err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	if len(deleted) != 0 {
		t.Fatalf("cross-category delete removed %v", photoIDs(deleted))
	}

	if p, _ := photos.FindByID(idsA[0]); p == nil {
		t.Error("photo in category A disappeared")
	}
}

func TestPhotoUpdateText_PartialFields(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	photos := NewPhotoStore(db)

	catID, ids := newTestGallery(t, cats, photos, 1)
	t.Cleanup(func() { cleanCategories(t, db, catID) })

	caption := "Dusk over the ridge"
	ok, err := photos.UpdateText(catID, ids[0], &caption, nil)
	if err != nil {
		t.Fatalf("UpdateText caption: %v", err)
	}
	if !ok {
		t.Fatal("UpdateText reported no rows")
	}

	desc := "Taken on the last evening of the trip."
	if _, err := photos.UpdateText(catID, ids[0], nil, &desc); err != nil {
		t.Fatalf("UpdateText description: %v", err)
	}

	p, _ := photos.FindByID(ids[0])
	if p.Caption != caption {
		t.Errorf("caption = %q, want %q (nil field must not clobber)", p.Caption, caption)
	}
	if p.Description != desc {
		t.Errorf("description = %q, want %q", p.Description, desc)
	}

	// Updating a missing photo is a no-op, not an error.
	ok, err = photos.UpdateText(catID, "missing", &caption, nil)
	if err != nil {
		t.Fatalf("UpdateText missing: %v", err)
	}
	if ok {
		t.Error("UpdateText reported rows for missing photo")
	}
}

func photoIDs(photos []models.Photo) []string {
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return ids
}
