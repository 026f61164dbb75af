// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fstop/internal/cache"
	"fstop/internal/gallery"
	"fstop/internal/render"
)

// Public serves the visitor-facing portfolio pages. Rendered pages are
// cached in Valkey and invalidated by the gallery service on mutation.
type Public struct {
	renderer  *render.Renderer
	galleries *gallery.Service
	pages     *cache.PageCache
	siteTitle string
}

// NewPublic creates a new Public handler group. pages may be nil, in
// which case every request renders fresh.
func NewPublic(renderer *render.Renderer, galleries *gallery.Service, pages *cache.PageCache, siteTitle string) *Public {
	return &Public{
		renderer:  renderer,
		galleries: galleries,
		pages:     pages,
		siteTitle: siteTitle,
	}
}

// Home renders the portfolio front page: a grid of category covers in
// display order.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r, cache.HomeKey()) {
		return
	}

	cats, err := p.galleries.Categories(r.Context())
	if err != nil {
		slog.Error("home: list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.Public("home", map[string]any{
		"SiteTitle":  p.siteTitle,
		"Title":      p.siteTitle,
		"Year":       time.Now().Year(),
		"Categories": cats,
	})
	if err != nil {
		slog.Error("home: render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.storeCached(r, cache.HomeKey(), html)
	writeHTML(w, http.StatusOK, html)
}

// Gallery renders one category's photos at /portfolio/{id}.
func (p *Public) Gallery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if p.serveCached(w, r, cache.GalleryKey(id)) {
		return
	}

	cat, err := p.galleries.CategoryWithPhotos(r.Context(), id)
	if err != nil {
		slog.Error("gallery: load failed", "error", err, "category", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cat == nil {
		http.NotFound(w, r)
		return
	}

	html, err := p.renderer.Public("gallery", map[string]any{
		"SiteTitle": p.siteTitle,
		"Title":     cat.Title + " - " + p.siteTitle,
		"Year":      time.Now().Year(),
		"Category":  cat,
	})
	if err != nil {
		slog.Error("gallery: render failed", "error", err, "category", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.storeCached(r, cache.GalleryKey(id), html)
	writeHTML(w, http.StatusOK, html)
}

// About renders the static about page. Not cached; it has no gallery
// data and renders in microseconds.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	html, err := p.renderer.Public("about", map[string]any{
		"SiteTitle": p.siteTitle,
		"Title":     "About - " + p.siteTitle,
		"Year":      time.Now().Year(),
	})
	if err != nil {
		slog.Error("about: render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if p.pages == nil {
		return false
	}
	html, ok := p.pages.Get(r.Context(), key)
	if !ok {
		return false
	}
	writeHTML(w, http.StatusOK, html)
	return true
}

func (p *Public) storeCached(r *http.Request, key string, html []byte) {
	if p.pages != nil {
		p.pages.Set(r.Context(), key, html)
	}
}

func writeHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}
