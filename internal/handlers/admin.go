// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the portfolio.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct. The admin mutation
// surface is a JSON API under /admin/api consumed by the gallery
// manager page.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fstop/internal/gallery"
	"fstop/internal/render"
	"fstop/internal/session"
	"fstop/internal/storage"
)

// Admin groups the admin panel HTTP handlers and their dependencies.
type Admin struct {
	renderer      *render.Renderer
	sessions      *session.Store
	galleries     *gallery.Service
	storageClient *storage.Client
}

// NewAdmin creates a new Admin handler group. storageClient may be nil
// if S3 is not configured; photo uploads are rejected in that case.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, galleries *gallery.Service, storageClient *storage.Client) *Admin {
	return &Admin{
		renderer:      renderer,
		sessions:      sessions,
		galleries:     galleries,
		storageClient: storageClient,
	}
}

// Dashboard renders the gallery manager page with every category and
// its photos, in display order.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	cats, err := a.galleries.Categories(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The manager edits photos inline, so load them for every category.
	for i := range cats {
		full, err := a.galleries.CategoryWithPhotos(r.Context(), cats[i].ID)
		if err != nil {
			slog.Error("load category photos failed", "error", err, "category", cats[i].ID)
			continue
		}
		if full != nil {
			cats[i] = *full
		}
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Galleries",
		Section: "dashboard",
		Data:    map[string]any{"Categories": cats},
	})
}

// --- JSON API: categories ---

// CategoriesJSON returns all categories with their photos, in display
// order. The admin client loads its mirror from this.
func (a *Admin) CategoriesJSON(w http.ResponseWriter, r *http.Request) {
	cats, err := a.galleries.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for i := range cats {
		full, err := a.galleries.CategoryWithPhotos(r.Context(), cats[i].ID)
		if err != nil {
			writeError(w, err)
			return
		}
		if full != nil {
			cats[i] = *full
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// CategoryCreate creates a category from a title. The id is derived
// from the title; creating a second "Alps" fails as a duplicate.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		writeErrorMsg(w, msg, http.StatusBadRequest)
		return
	}

	created, err := a.galleries.CreateCategory(r.Context(), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CategoryDelete removes a category and everything in it. Deleting an
// id that no longer exists succeeds; the end state is the same.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.galleries.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CategoryRename changes a category's display title. The id stays.
func (a *Admin) CategoryRename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateTitle(req.Title); msg != "" {
		writeErrorMsg(w, msg, http.StatusBadRequest)
		return
	}

	if err := a.galleries.RenameCategory(r.Context(), id, req.Title); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CategoriesReorder persists a full new category ordering.
func (a *Admin) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := a.galleries.ReorderCategories(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CategoryCover sets or clears (empty src) the category's cover image.
func (a *Admin) CategoryCover(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Src string `json:"src"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := a.galleries.SetCategoryCover(r.Context(), id, req.Src); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// --- JSON API: photos ---

// PhotosReorder persists a full new photo ordering within one category.
func (a *Admin) PhotosReorder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := a.galleries.ReorderPhotos(r.Context(), id, req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PhotosDelete removes a batch of photos from a category and cleans up
// their stored files best-effort.
func (a *Admin) PhotosDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	deleted, err := a.galleries.DeletePhotos(r.Context(), id, req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	// S3 cleanup never fails the request; the DB rows are already gone.
	if a.storageClient != nil {
		for _, p := range deleted {
			for _, src := range []string{p.Src, p.ThumbSrc} {
				if key, ok := a.storageClient.ExtractKey(src); ok {
					if err := a.storageClient.Delete(r.Context(), key); err != nil {
						slog.Warn("s3 delete failed", "error", err, "key", key)
					}
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": len(deleted)})
}

// PhotoUpdate applies a partial caption/description edit to one photo.
// Omitted fields keep their values; updating a photo that no longer
// exists is a no-op.
func (a *Admin) PhotoUpdate(w http.ResponseWriter, r *http.Request) {
	catID := chi.URLParam(r, "id")
	photoID := chi.URLParam(r, "photoID")

	var req struct {
		Caption     *string `json:"caption"`
		Description *string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validatePhotoText(req.Caption, req.Description); msg != "" {
		writeErrorMsg(w, msg, http.StatusBadRequest)
		return
	}

	err := a.galleries.UpdatePhoto(r.Context(), catID, photoID, gallery.PhotoUpdate{
		Caption:     req.Caption,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// --- shared JSON helpers ---

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMsg(w, "Invalid JSON body.", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMsg(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps service errors to HTTP statuses: rejected input is a
// 400, a missing entity a 404, a partial batch a 207 with per-item
// counts, anything else a logged 500.
func writeError(w http.ResponseWriter, err error) {
	var partial *gallery.PartialError
	switch {
	case errors.As(err, &partial):
		msgs := make([]string, len(partial.Errs))
		for i, e := range partial.Errs {
			msgs[i] = e.Error()
		}
		writeJSON(w, http.StatusMultiStatus, map[string]any{
			"succeeded": partial.Succeeded,
			"failed":    partial.Failed,
			"errors":    msgs,
		})
	case errors.Is(err, gallery.ErrInvalidInput):
		writeErrorMsg(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, gallery.ErrNotFound):
		writeErrorMsg(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("admin api error", "error", err)
		writeErrorMsg(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
