// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"fstop/internal/gallery"
	"fstop/internal/models"
)

// fakeGateway is an in-memory Gateway with per-operation failure hooks.
type fakeGateway struct {
	mu   sync.Mutex
	seq  int
	fail map[string]error

	// failSrc makes AddPhoto fail for specific photo srcs, so batch
	// tests can fail individual items.
	failSrc map[string]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{fail: make(map[string]error), failSrc: make(map[string]error)}
}

func (g *fakeGateway) err(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fail[op]
}

func (g *fakeGateway) CreateCategory(_ context.Context, title string) (*models.Category, error) {
	if err := g.err("createCategory"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("cat-%d", g.seq)
	g.mu.Unlock()
	return &models.Category{ID: id, Title: title, Position: 0}, nil
}

func (g *fakeGateway) DeleteCategory(_ context.Context, _ string) error {
	return g.err("deleteCategory")
}

func (g *fakeGateway) RenameCategory(_ context.Context, _, _ string) error {
	return g.err("renameCategory")
}

func (g *fakeGateway) ReorderCategories(_ context.Context, _ []string) error {
	return g.err("reorderCategories")
}

func (g *fakeGateway) SetCategoryCover(_ context.Context, _, _ string) error {
	return g.err("setCategoryCover")
}

func (g *fakeGateway) AddPhoto(_ context.Context, categoryID string, in gallery.PhotoInput) (*models.Photo, error) {
	if err := g.err("addPhoto"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failSrc[in.Src]; err != nil {
		return nil, err
	}
	g.seq++
	return &models.Photo{
		ID:         fmt.Sprintf("photo-%d", g.seq),
		CategoryID: categoryID,
		Src:        in.Src,
		ThumbSrc:   in.ThumbSrc,
		Caption:    in.Caption,
	}, nil
}

func (g *fakeGateway) DeletePhotos(_ context.Context, _ string, _ []string) ([]models.Photo, error) {
	return nil, g.err("deletePhotos")
}

func (g *fakeGateway) UpdatePhoto(_ context.Context, _, _ string, _ gallery.PhotoUpdate) error {
	return g.err("updatePhoto")
}

func (g *fakeGateway) ReorderPhotos(_ context.Context, _ string, _ []string) error {
	return g.err("reorderPhotos")
}

// transitions records every notification in order.
type transitions struct {
	mu     sync.Mutex
	events []string
}

func (tr *transitions) notifier() Notifier {
	return func(op string, status Status, err error) {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		tr.events = append(tr.events, op+":"+status.String())
	}
}

func (tr *transitions) all() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.events...)
}

func seedMirror(m *Mirror) {
	m.Load([]models.Category{
		{
			ID: "alps", Title: "Alps", Position: 0,
			Photos: []models.Photo{
				{ID: "p1", CategoryID: "alps", Src: "/img/p1.jpg", Position: 0},
				{ID: "p2", CategoryID: "alps", Src: "/img/p2.jpg", Position: 1},
				{ID: "p3", CategoryID: "alps", Src: "/img/p3.jpg", Position: 2},
			},
			PhotoCount: 3,
		},
		{ID: "coast", Title: "Coast", Position: 1},
	})
}

func TestCreateCategoryReplacesPlaceholder(t *testing.T) {
	gw := newFakeGateway()
	tr := &transitions{}
	m := New(gw, tr.notifier())
	seedMirror(m)

	if err := m.CreateCategory(context.Background(), "  Street  "); err != nil {
		t.Fatalf("create: %v", err)
	}

	cats := m.Categories()
	if len(cats) != 3 {
		t.Fatalf("want 3 categories, got %d", len(cats))
	}
	last := cats[2]
	if IsPlaceholder(last.ID) {
		t.Fatalf("placeholder id survived commit: %s", last.ID)
	}
	if last.Title != "Street" {
		t.Errorf("title = %q, want trimmed %q", last.Title, "Street")
	}

	want := []string{"createCategory:optimistic", "createCategory:committed"}
	if got := tr.all(); !reflect.DeepEqual(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
}

func TestCreateCategoryRollbackRestoresExactState(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["createCategory"] = errors.New("db down")
	tr := &transitions{}
	m := New(gw, tr.notifier())
	seedMirror(m)

	before := m.Categories()

	if err := m.CreateCategory(context.Background(), "Street"); err == nil {
		t.Fatal("want error from failed create")
	}
	if got := m.Categories(); !reflect.DeepEqual(got, before) {
		t.Errorf("mirror after rollback differs from pre-mutation state\n got: %+v\nwant: %+v", got, before)
	}

	want := []string{"createCategory:optimistic", "createCategory:rolledBack"}
	if got := tr.all(); !reflect.DeepEqual(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
}

func TestDeleteCategoryOptimisticAndRollback(t *testing.T) {
	gw := newFakeGateway()
	m := New(gw, nil)
	seedMirror(m)

	if err := m.DeleteCategory(context.Background(), "alps"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if m.Category("alps") != nil {
		t.Error("deleted category still in mirror")
	}

	gw.fail["deleteCategory"] = errors.New("boom")
	before := m.Categories()
	if err := m.DeleteCategory(context.Background(), "coast"); err == nil {
		t.Fatal("want delete error")
	}
	if got := m.Categories(); !reflect.DeepEqual(got, before) {
		t.Error("failed delete was not rolled back")
	}
}

func TestReorderCategoriesAppliesBeforeDispatch(t *testing.T) {
	gw := newFakeGateway()
	var m *Mirror
	var orderDuringFlight []string
	// The optimistic notification fires after the local reorder and
	// before dispatch, so the mirror must already show the new order.
	m = New(gw, func(_ string, status Status, _ error) {
		if status == StatusOptimistic {
			for _, c := range m.Categories() {
				orderDuringFlight = append(orderDuringFlight, c.ID)
			}
		}
	})
	seedMirror(m)

	if err := m.ReorderCategories(context.Background(), []string{"coast", "alps"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	if !reflect.DeepEqual(orderDuringFlight, []string{"coast", "alps"}) {
		t.Errorf("order during flight = %v, want [coast alps]", orderDuringFlight)
	}

	cats := m.Categories()
	if cats[0].ID != "coast" || cats[1].ID != "alps" {
		t.Fatalf("order = [%s %s], want [coast alps]", cats[0].ID, cats[1].ID)
	}
	if cats[0].Position != 0 || cats[1].Position != 1 {
		t.Errorf("positions = [%d %d], want renumbered [0 1]", cats[0].Position, cats[1].Position)
	}
}

func TestReorderPhotosRollbackKeepsOldOrder(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["reorderPhotos"] = errors.New("rejected")
	m := New(gw, nil)
	seedMirror(m)

	if err := m.ReorderPhotos(context.Background(), "alps", []string{"p3", "p1", "p2"}); err == nil {
		t.Fatal("want error")
	}

	c := m.Category("alps")
	want := []string{"p1", "p2", "p3"}
	for i, p := range c.Photos {
		if p.ID != want[i] {
			t.Fatalf("photo[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestAddPhotoFirstBecomesCoverLocally(t *testing.T) {
	gw := newFakeGateway()
	m := New(gw, nil)
	seedMirror(m)

	in := gallery.PhotoInput{Src: "/img/new.jpg", ThumbSrc: "/img/new_t.jpg"}
	if err := m.AddPhoto(context.Background(), "coast", in); err != nil {
		t.Fatalf("add: %v", err)
	}

	c := m.Category("coast")
	if len(c.Photos) != 1 {
		t.Fatalf("want 1 photo, got %d", len(c.Photos))
	}
	if IsPlaceholder(c.Photos[0].ID) {
		t.Error("placeholder not replaced by confirmed photo")
	}
	if c.Cover() != "/img/new.jpg" {
		t.Errorf("cover = %q, want first photo src", c.Cover())
	}
}

func TestAddPhotosPartialBatchCommitsSubset(t *testing.T) {
	gw := newFakeGateway()
	gw.failSrc["/img/b.jpg"] = errors.New("corrupt upload")
	tr := &transitions{}
	m := New(gw, tr.notifier())
	seedMirror(m)

	inputs := []gallery.PhotoInput{
		{Src: "/img/a.jpg"},
		{Src: "/img/b.jpg"},
		{Src: "/img/c.jpg"},
	}
	err := m.AddPhotos(context.Background(), "alps", inputs)

	var partial *gallery.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("want *gallery.PartialError, got %v", err)
	}
	if partial.Succeeded != 2 || partial.Failed != 1 {
		t.Errorf("outcome = %d/%d, want 2 succeeded, 1 failed", partial.Succeeded, partial.Failed)
	}

	c := m.Category("alps")
	if len(c.Photos) != 5 {
		t.Fatalf("want 3 existing + 2 committed photos, got %d", len(c.Photos))
	}
	for _, p := range c.Photos {
		if IsPlaceholder(p.ID) {
			t.Errorf("placeholder %s left behind", p.ID)
		}
		if p.Src == "/img/b.jpg" {
			t.Error("failed photo was committed")
		}
	}

	// A mixed batch is a commit, not a rollback.
	want := []string{"addPhotos:optimistic", "addPhotos:committed"}
	if got := tr.all(); !reflect.DeepEqual(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
}

func TestAddPhotosTotalFailureRollsBack(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["addPhoto"] = errors.New("storage down")
	m := New(gw, nil)
	seedMirror(m)

	before := m.Categories()
	err := m.AddPhotos(context.Background(), "alps", []gallery.PhotoInput{
		{Src: "/img/a.jpg"}, {Src: "/img/b.jpg"},
	})
	if err == nil {
		t.Fatal("want error")
	}
	var partial *gallery.PartialError
	if errors.As(err, &partial) {
		t.Error("total failure must not be a PartialError")
	}
	if got := m.Categories(); !reflect.DeepEqual(got, before) {
		t.Error("total batch failure was not rolled back")
	}
}

func TestAddPhotosEmptyBatchRejected(t *testing.T) {
	gw := newFakeGateway()
	m := New(gw, nil)
	seedMirror(m)

	before := m.Categories()
	err := m.AddPhotos(context.Background(), "alps", nil)
	if !errors.Is(err, gallery.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if err := m.AddPhotos(context.Background(), "alps", []gallery.PhotoInput{}); !errors.Is(err, gallery.ErrInvalidInput) {
		t.Fatalf("empty slice: err = %v, want ErrInvalidInput", err)
	}
	if got := m.Categories(); !reflect.DeepEqual(got, before) {
		t.Error("empty batch must not touch the mirror")
	}

	// The rejection must not leave the photo scope held.
	if err := m.AddPhoto(context.Background(), "alps", gallery.PhotoInput{Src: "/img/after.jpg"}); err != nil {
		t.Fatalf("scope still usable after rejection: %v", err)
	}
}

func TestDeletePhotosRemovesImmediately(t *testing.T) {
	gw := newFakeGateway()
	m := New(gw, nil)
	seedMirror(m)

	if err := m.DeletePhotos(context.Background(), "alps", []string{"p2", "p3"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c := m.Category("alps")
	if len(c.Photos) != 1 || c.Photos[0].ID != "p1" {
		t.Fatalf("photos after delete = %+v, want only p1", c.Photos)
	}
	if c.PhotoCount != 1 {
		t.Errorf("PhotoCount = %d, want 1", c.PhotoCount)
	}
}

func TestUpdatePhotoPartialFields(t *testing.T) {
	gw := newFakeGateway()
	m := New(gw, nil)
	seedMirror(m)

	caption := "dawn"
	err := m.UpdatePhoto(context.Background(), "alps", "p1", gallery.PhotoUpdate{Caption: &caption})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	c := m.Category("alps")
	if c.Photos[0].Caption != "dawn" {
		t.Errorf("caption = %q, want %q", c.Photos[0].Caption, "dawn")
	}
	if c.Photos[0].Description != "" {
		t.Errorf("description changed without being set: %q", c.Photos[0].Description)
	}
}

func TestSameScopeMutationRejectedWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	// Block the first rename inside dispatch by wrapping the gateway.
	blocking := &blockingGateway{fakeGateway: newFakeGateway(), started: started, release: release}
	m2 := New(blocking, nil)
	seedMirror(m2)

	done := make(chan error, 1)
	go func() {
		done <- m2.RenameCategory(context.Background(), "alps", "Alpen")
	}()
	<-started

	// Same scope: rejected. Different scope: allowed.
	if err := m2.RenameCategory(context.Background(), "coast", "Shore"); !errors.Is(err, ErrMutationInFlight) {
		t.Errorf("second category mutation err = %v, want ErrMutationInFlight", err)
	}
	if err := m2.ReorderPhotos(context.Background(), "alps", []string{"p2", "p1", "p3"}); err != nil {
		t.Errorf("photo-scope mutation during category mutation: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first rename: %v", err)
	}
}

type blockingGateway struct {
	*fakeGateway
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *blockingGateway) RenameCategory(ctx context.Context, id, title string) error {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.fakeGateway.RenameCategory(ctx, id, title)
}

func TestRollbackDoesNotDisturbOtherScopes(t *testing.T) {
	gw := newFakeGateway()
	gw.fail["reorderPhotos"] = errors.New("rejected")
	m := New(gw, nil)
	seedMirror(m)

	if err := m.RenameCategory(context.Background(), "coast", "Shore"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := m.ReorderPhotos(context.Background(), "alps", []string{"p3", "p2", "p1"}); err == nil {
		t.Fatal("want reorder error")
	}

	// The photo-scope rollback restores alps only; the committed rename
	// on coast survives.
	if got := m.Category("coast").Title; got != "Shore" {
		t.Errorf("coast title = %q, want committed rename to survive", got)
	}
}
