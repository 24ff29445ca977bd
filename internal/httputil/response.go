// Package httputil builds redirects and error pages for the handlers.
package httputil

import (
	"net/http"
	"net/url"

	"quillfeed/internal/render"
)

// LoginPath is where anonymous users are sent when a handler requires
// authentication. The originally requested path travels in ?next= so the
// user returns there after logging in.
const LoginPath = "/auth/login/"

// Redirect issues a 302 to the target path.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

// RedirectToLogin issues a 302 to the login page carrying the original path.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath + "?next=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusFound)
}

// NotFound renders the 404 page with the requested path.
func NotFound(rnd render.Renderer, w http.ResponseWriter, r *http.Request) {
	rnd.HTML(w, http.StatusNotFound, "404.html", map[string]any{
		"path": r.URL.Path,
	})
}

// ServerError renders the generic 500 page.
func ServerError(rnd render.Renderer, w http.ResponseWriter) {
	rnd.HTML(w, http.StatusInternalServerError, "500.html", map[string]any{})
}
