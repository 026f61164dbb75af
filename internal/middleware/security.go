// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders stamps every response with the usual browser hardening
// headers (MIME sniffing, framing, referrer policy).
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// No MIME sniffing of the Content-Type.
		h.Set("X-Content-Type-Options", "nosniff")

		// No cross-origin framing of the galleries or the admin.
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// The legacy XSS filter stays off.
		h.Set("X-XSS-Protection", "0")

		// Trim what leaves in the Referer header.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Opt out of FLoC cohort calculation.
		h.Set("Permissions-Policy", "interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
