// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "sort"

// Photo is a single image in a category's gallery. A photo belongs to
// exactly one category for its whole life; there is no move operation.
// Src is the public URL of the stored image and is treated as opaque.
type Photo struct {
	ID          string `json:"id"`
	CategoryID  string `json:"category_id"`
	Src         string `json:"src"`
	Caption     string `json:"caption,omitempty"`
	Description string `json:"description,omitempty"`
	Position    int    `json:"position"`

	// ThumbSrc is the URL of the generated thumbnail, if one exists.
	// Grid views use it; the lightbox loads Src.
	ThumbSrc string `json:"thumb_src,omitempty"`
}

// SortPhotos sorts photos into canonical display order (position, id).
func SortPhotos(photos []Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		if photos[i].Position != photos[j].Position {
			return photos[i].Position < photos[j].Position
		}
		return photos[i].ID < photos[j].ID
	})
}
