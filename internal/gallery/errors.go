// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package gallery

import (
	"errors"
	"fmt"
)

// Sentinel errors for the mutation surface. Callers match with errors.Is;
// anything that is neither of these is a transient store failure and safe
// to retry.
var (
	// ErrInvalidInput marks a rejected request: empty title, unknown
	// category on photo add, or a reorder list that isn't a permutation
	// of the collection.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an update against an entity that no longer
	// exists (deleted by another session). Deletes tolerate this as a
	// no-op and never return it.
	ErrNotFound = errors.New("not found")
)

// PartialError reports a batch operation where some items succeeded and
// some failed. The successful subset is committed; only the failures
// need retrying.
type PartialError struct {
	Succeeded int
	Failed    int
	Errs      []error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d succeeded, %d failed", e.Succeeded, e.Failed)
}

// Unwrap exposes the individual failures to errors.Is/As.
func (e *PartialError) Unwrap() []error {
	return e.Errs
}
