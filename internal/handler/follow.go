package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quillfeed/internal/httputil"
	"quillfeed/internal/model"
	"quillfeed/internal/render"
	"quillfeed/internal/service"
	"quillfeed/internal/transport/http/middleware"
)

type FollowHandler struct {
	postService   *service.PostService
	followService *service.FollowService
	render        render.Renderer
}

func NewFollowHandler(postService *service.PostService, followService *service.FollowService, rnd render.Renderer) *FollowHandler {
	return &FollowHandler{
		postService:   postService,
		followService: followService,
		render:        rnd,
	}
}

// Feed handles GET /follow/ (login required).
// One page of posts from authors the current user follows.
func (h *FollowHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	page, err := h.postService.ListFeed(r.Context(), user.ID, r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[ERROR] Follow feed handler: user=%d err=%v", user.ID, err)
		httputil.ServerError(h.render, w)
		return
	}

	data := baseContext(r)
	data["page"] = page
	h.render.HTML(w, http.StatusOK, "follow.html", data)
}

// Follow handles GET /{username}/follow/ (login required).
// Creates the subscription edge (idempotent, self-follow ignored) and
// redirects back to the profile.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.followService.Follow(r.Context(), user.ID, username); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.NotFound(h.render, w, r)
			return
		}
		log.Printf("[ERROR] Follow handler: user=%d author=%s err=%v", user.ID, username, err)
		httputil.ServerError(h.render, w)
		return
	}

	httputil.Redirect(w, r, "/"+username+"/")
}

// Unfollow handles GET /{username}/unfollow/ (login required).
// Removes the edge if present; an absent edge still redirects cleanly.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.followService.Unfollow(r.Context(), user.ID, username); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.NotFound(h.render, w, r)
			return
		}
		log.Printf("[ERROR] Unfollow handler: user=%d author=%s err=%v", user.ID, username, err)
		httputil.ServerError(h.render, w)
		return
	}

	httputil.Redirect(w, r, "/"+username+"/")
}
