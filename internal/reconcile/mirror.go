// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package reconcile keeps a client-side mirror of the portfolio's
// categories and photos and applies admin mutations to it optimistically:
// the mirror shows the intended end state immediately, the mutation is
// dispatched to the gateway, and the result either commits (merging
// server-confirmed entities over local placeholders) or rolls the mirror
// back to its exact pre-mutation snapshot.
//
// The Mirror is an explicit state container handed to whatever drives
// it — it is a best-effort cache, never the source of truth. It tolerates
// staleness and is reconciled per mutation, not locked against other
// writers of the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fstop/internal/gallery"
	"fstop/internal/models"
)

// Status is the lifecycle state of one mutation.
type Status int

const (
	// StatusIdle: the mutation has not touched the mirror yet.
	StatusIdle Status = iota
	// StatusOptimistic: the mirror shows the intended end state and the
	// gateway call is in flight.
	StatusOptimistic
	// StatusCommitted: the gateway confirmed; placeholders are replaced
	// with server entities.
	StatusCommitted
	// StatusRolledBack: the gateway failed; the mirror was restored to
	// its pre-mutation snapshot. Terminal — the user retries manually.
	StatusRolledBack
)

// String returns the lowercase state name, mostly for log lines.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusOptimistic:
		return "optimistic"
	case StatusCommitted:
		return "committed"
	case StatusRolledBack:
		return "rolledback"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ErrMutationInFlight is returned when a mutation targets a scope that
// already has one pending. The reconciler is single-mutation-at-a-time
// per scope; mutations on different scopes run independently.
var ErrMutationInFlight = errors.New("mutation already in flight for this scope")

// Gateway is the server-side mutation surface the mirror dispatches to.
// *gallery.Service satisfies it directly; an HTTP client of the admin
// API can too.
type Gateway interface {
	CreateCategory(ctx context.Context, title string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	RenameCategory(ctx context.Context, id, title string) error
	ReorderCategories(ctx context.Context, ids []string) error
	SetCategoryCover(ctx context.Context, id, src string) error
	AddPhoto(ctx context.Context, categoryID string, in gallery.PhotoInput) (*models.Photo, error)
	DeletePhotos(ctx context.Context, categoryID string, photoIDs []string) ([]models.Photo, error)
	UpdatePhoto(ctx context.Context, categoryID, photoID string, upd gallery.PhotoUpdate) error
	ReorderPhotos(ctx context.Context, categoryID string, ids []string) error
}

// Notifier observes mutation lifecycle transitions, so a UI can show
// loading → success or loading → error for every admin action. err is
// nil except on StatusRolledBack and partial batch commits.
type Notifier func(op string, status Status, err error)

// Mirror holds the in-memory copy of the collections. Safe for
// concurrent use; mutations on the same scope are serialized by
// rejection, not queueing.
type Mirror struct {
	mu       sync.Mutex
	cats     []models.Category
	inFlight map[string]bool

	gateway Gateway
	notify  Notifier
}

// New creates a mirror over the given gateway. notify may be nil.
func New(gw Gateway, notify Notifier) *Mirror {
	if notify == nil {
		notify = func(string, Status, error) {}
	}
	return &Mirror{
		inFlight: make(map[string]bool),
		gateway:  gw,
		notify:   notify,
	}
}

// Load replaces the mirror contents with a server-fetched snapshot.
// Called on init and whenever the caller decides to re-fetch (for
// example after an error left it unsure of server state).
func (m *Mirror) Load(cats []models.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cats = cloneCategories(cats)
}

// Categories returns a deep copy of the mirrored collections in their
// current display order.
func (m *Mirror) Categories() []models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneCategories(m.cats)
}

// Category returns a deep copy of one mirrored category, or nil.
func (m *Mirror) Category(id string) *models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.find(id); c != nil {
		clone := cloneCategory(*c)
		return &clone
	}
	return nil
}

// Scope keys: one for the category collection and one per category's
// photo collection. A mutation holds exactly one scope.
const scopeCategories = "categories"

func scopePhotos(categoryID string) string { return "photos:" + categoryID }

// placeholderID generates a local id for optimistic creations; it is
// replaced by the server-assigned id on commit.
func placeholderID() string { return "pending-" + uuid.New().String() }

// IsPlaceholder reports whether an id is a local placeholder that has
// not been confirmed by the server yet.
func IsPlaceholder(id string) bool { return strings.HasPrefix(id, "pending-") }

// run is the one optimistic-update combinator every mutation goes
// through: snapshot the scope, apply the intended end state, dispatch,
// then merge the confirmation or restore the snapshot. commit may be nil
// when the optimistic state already equals the server outcome.
//
// dispatch returning both a commit and an error is the partial-batch
// case: the successful subset is merged and the error is still surfaced.
// An error with no commit rolls the whole scope back.
func (m *Mirror) run(
	ctx context.Context,
	op, scope string,
	optimistic func(),
	dispatch func(ctx context.Context) (commit func(), err error),
) error {
	m.mu.Lock()
	if m.inFlight[scope] {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMutationInFlight, scope)
	}
	m.inFlight[scope] = true
	snapshot := m.snapshotScope(scope)
	optimistic()
	m.mu.Unlock()

	m.notify(op, StatusOptimistic, nil)

	commit, err := dispatch(ctx)

	m.mu.Lock()
	delete(m.inFlight, scope)
	if err != nil && commit == nil {
		m.restoreScope(scope, snapshot)
		m.mu.Unlock()
		m.notify(op, StatusRolledBack, err)
		return err
	}
	if commit != nil {
		commit()
	}
	m.mu.Unlock()

	m.notify(op, StatusCommitted, err)
	return err
}

// snapshotScope deep-copies the part of the mirror a scope covers.
// Category-collection mutations cover everything (a delete cascades into
// photos); photo mutations cover one category's entry.
func (m *Mirror) snapshotScope(scope string) []models.Category {
	if scope == scopeCategories {
		return cloneCategories(m.cats)
	}
	id := strings.TrimPrefix(scope, "photos:")
	if c := m.find(id); c != nil {
		return []models.Category{cloneCategory(*c)}
	}
	return nil
}

// restoreScope puts a snapshot back, undoing every optimistic change in
// the scope and nothing outside it.
func (m *Mirror) restoreScope(scope string, snapshot []models.Category) {
	if scope == scopeCategories {
		m.cats = snapshot
		return
	}
	if len(snapshot) != 1 {
		return
	}
	for i := range m.cats {
		if m.cats[i].ID == snapshot[0].ID {
			m.cats[i] = snapshot[0]
			return
		}
	}
}

// find returns a pointer into the mirror's backing slice. Callers hold
// the lock and must not retain the pointer past it.
func (m *Mirror) find(id string) *models.Category {
	for i := range m.cats {
		if m.cats[i].ID == id {
			return &m.cats[i]
		}
	}
	return nil
}

func cloneCategory(c models.Category) models.Category {
	clone := c
	if c.CoverImage != nil {
		cover := *c.CoverImage
		clone.CoverImage = &cover
	}
	clone.Photos = append([]models.Photo(nil), c.Photos...)
	return clone
}

func cloneCategories(cats []models.Category) []models.Category {
	if cats == nil {
		return nil
	}
	clones := make([]models.Category, len(cats))
	for i, c := range cats {
		clones[i] = cloneCategory(c)
	}
	return clones
}
