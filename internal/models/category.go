// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "sort"

// Category is a named, ordered collection of photos. Its ID is a slug
// derived from the title at creation time and never changes afterwards,
// even if the category is renamed.
type Category struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	CoverImage *string `json:"cover_image,omitempty"`
	Position   int     `json:"position"`

	// Virtual fields populated by store methods.
	Photos     []Photo `json:"photos,omitempty"`
	PhotoCount int     `json:"photo_count"`
}

// HasCover returns true if the category has a cover image set.
func (c *Category) HasCover() bool {
	return c.CoverImage != nil && *c.CoverImage != ""
}

// Cover returns the cover image URL, or the empty string if none is set.
func (c *Category) Cover() string {
	if c.CoverImage == nil {
		return ""
	}
	return *c.CoverImage
}

// SortCategories sorts categories into canonical display order.
// Position values are not guaranteed contiguous or unique, so the sort
// is always (position, id) — id breaks ties for equal positions.
func SortCategories(cats []Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Position != cats[j].Position {
			return cats[i].Position < cats[j].Position
		}
		return cats[i].ID < cats[j].ID
	})
}
