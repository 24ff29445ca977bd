// Package handler holds one request handler per use case. Handlers load
// entities through the services, run form validation on submissions, and
// produce a rendered page or a redirect.
package handler

import (
	"net/http"

	"quillfeed/internal/transport/http/middleware"
)

// baseContext seeds the template context with the current identity so every
// page can render the navigation bar.
func baseContext(r *http.Request) map[string]any {
	data := map[string]any{"user": nil}
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		data["user"] = user
	}
	return data
}
