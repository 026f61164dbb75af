// Package web provides embedded static assets (CSS, JS) for the admin
// interface and public site. In development, templates load CSS from CDN;
// in production the compiled files are embedded here and served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. The Docker build
// compiles TailwindCSS into static/css/site.css before building the
// binary; static/js/admin.js is the hand-written admin client.
//
//go:embed all:static
var StaticFS embed.FS
