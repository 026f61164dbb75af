// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gallery

import "fmt"

// The ordering policy for both collections:
//
//   - insert appends at max(sort_order)+1, or 0 into an empty collection;
//   - reorder rewrites every row's sort_order to its 0-based index in the
//     submitted list;
//   - delete never renumbers siblings, so gaps accumulate and display
//     order must always be computed by sorting on (sort_order, id).
//
// The renumbering itself lives in the store (it is a SQL transaction);
// this file holds the request-side checks.

// checkReorderList verifies that submitted is a permutation of current.
// A list that omits an existing id would orphan its position, and a
// foreign id would renumber another collection's row, so both are
// rejected before anything is written.
func checkReorderList(submitted, current []string) error {
	if len(submitted) != len(current) {
		return fmt.Errorf("%w: reorder list has %d ids, collection has %d",
			ErrInvalidInput, len(submitted), len(current))
	}

	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	for _, id := range submitted {
		if !known[id] {
			return fmt.Errorf("%w: reorder list contains unknown or duplicate id %q",
				ErrInvalidInput, id)
		}
		// Consume the id so duplicates in the submitted list are caught.
		delete(known, id)
	}

	return nil
}
