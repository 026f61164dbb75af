// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// portfolio. Routes are organized into the public site, the auth flow
// and the admin gallery API, each with its own middleware stack.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fstop/internal/handlers"
	"fstop/internal/middleware"
	"fstop/internal/session"
	"fstop/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. secureCookies should be true behind TLS.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check. No auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Login attempts are rate limited per IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Admin routes. Everything under /admin is CSRF protected.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(secureCookies))

		// Auth pages, accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA needs a session but not completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// The gallery manager and its JSON API need full authentication.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", admin.Dashboard)

			r.Route("/api/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesJSON)
				r.Post("/", admin.CategoryCreate)
				r.Put("/order", admin.CategoriesReorder)

				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", admin.CategoryDelete)
					r.Put("/title", admin.CategoryRename)
					r.Put("/cover", admin.CategoryCover)

					r.Post("/photos", admin.PhotosUpload)
					r.Delete("/photos", admin.PhotosDelete)
					r.Put("/photos/order", admin.PhotosReorder)
					r.Patch("/photos/{photoID}", admin.PhotoUpdate)
				})
			})
		})
	})

	// Public site.
	r.Get("/", public.Home)
	r.Get("/portfolio/{id}", public.Gallery)
	r.Get("/about", public.About)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
