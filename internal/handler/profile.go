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

type ProfileHandler struct {
	postService   *service.PostService
	followService *service.FollowService
	render        render.Renderer
}

func NewProfileHandler(postService *service.PostService, followService *service.FollowService, rnd render.Renderer) *ProfileHandler {
	return &ProfileHandler{
		postService:   postService,
		followService: followService,
		render:        rnd,
	}
}

// Feed handles GET /{username}/
// One page of the author's posts plus the viewer's follow state and the
// author's follower count. Unknown usernames are a 404.
func (h *ProfileHandler) Feed(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	author, page, err := h.postService.ListByAuthor(r.Context(), username, r.URL.Query().Get("page"))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.NotFound(h.render, w, r)
			return
		}
		log.Printf("[ERROR] Profile handler: username=%s err=%v", username, err)
		httputil.ServerError(h.render, w)
		return
	}

	var viewerID *int64
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		viewerID = &user.ID
	}

	following, followers, err := h.followService.Status(r.Context(), viewerID, author)
	if err != nil {
		log.Printf("[ERROR] Profile follow status: username=%s err=%v", username, err)
		httputil.ServerError(h.render, w)
		return
	}

	data := baseContext(r)
	data["author"] = author
	data["page"] = page
	data["following"] = following
	data["following_count"] = followers
	h.render.HTML(w, http.StatusOK, "profile.html", data)
}
