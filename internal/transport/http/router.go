package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"quillfeed/internal/cache"
	"quillfeed/internal/handler"
	"quillfeed/internal/httputil"
	"quillfeed/internal/render"
	appmw "quillfeed/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	GroupHandler   *handler.GroupHandler
	ProfileHandler *handler.ProfileHandler
	CommentHandler *handler.CommentHandler
	FollowHandler  *handler.FollowHandler
	Renderer       render.Renderer
	JWTSecret      string
	PageCache      cache.PageCache // nil disables the index page cache
	IndexCacheTTL  time.Duration
}

// NewRouter creates and configures a new Chi router with all route groups.
// Username routes come last so the static prefixes (/new/, /group/,
// /follow/, /auth/) always win.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(appmw.Session(cfg.JWTSecret))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// The index is served through the timeout-invalidated page cache:
	// freshly created posts may stay invisible here until the TTL passes.
	r.With(appmw.CachePage(cfg.PageCache, cfg.IndexCacheTTL)).
		Get("/", cfg.PostHandler.Index)

	r.Get("/group/{slug}/", cfg.GroupHandler.Feed)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/", cfg.AuthHandler.Login)
		r.Post("/login/", cfg.AuthHandler.Login)
		r.Get("/signup/", cfg.AuthHandler.Signup)
		r.Post("/signup/", cfg.AuthHandler.Signup)
		r.Get("/logout/", cfg.AuthHandler.Logout)
	})

	// Protected routes - require a logged-in user
	r.Group(func(r chi.Router) {
		r.Use(appmw.RequireLogin)

		r.Get("/new/", cfg.PostHandler.New)
		r.Post("/new/", cfg.PostHandler.New)
		r.Get("/follow/", cfg.FollowHandler.Feed)

		r.Get("/{username}/follow/", cfg.FollowHandler.Follow)
		r.Get("/{username}/unfollow/", cfg.FollowHandler.Unfollow)
		r.Get("/{username}/{postID}/edit/", cfg.PostHandler.Edit)
		r.Post("/{username}/{postID}/edit/", cfg.PostHandler.Edit)
		r.Post("/{username}/{postID}/comment/", cfg.CommentHandler.Add)
	})

	// Public profile and post pages
	r.Get("/{username}/", cfg.ProfileHandler.Feed)
	r.Get("/{username}/{postID}/", cfg.PostHandler.View)

	// Anything else renders the 404 page with the requested path
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.NotFound(cfg.Renderer, w, r)
	})

	return r
}
