package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quillfeed/internal/form"
	"quillfeed/internal/httputil"
	"quillfeed/internal/model"
	"quillfeed/internal/render"
	"quillfeed/internal/service"
	"quillfeed/internal/transport/http/middleware"
)

type CommentHandler struct {
	postService    *service.PostService
	commentService *service.CommentService
	render         render.Renderer
}

func NewCommentHandler(postService *service.PostService, commentService *service.CommentService, rnd render.Renderer) *CommentHandler {
	return &CommentHandler{
		postService:    postService,
		commentService: commentService,
		render:         rnd,
	}
}

// Add handles POST /{username}/{postID}/comment/ (login required).
// Invalid text re-renders the comment form with the field error and no
// mutation; valid text persists the comment and redirects to the post.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	username := chi.URLParam(r, "username")
	postIDRaw := chi.URLParam(r, "postID")

	postID, err := strconv.ParseInt(postIDRaw, 10, 64)
	if err != nil {
		httputil.NotFound(h.render, w, r)
		return
	}

	post, err := h.postService.Get(r.Context(), username, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.NotFound(h.render, w, r)
			return
		}
		log.Printf("[ERROR] Add comment handler: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	f := form.ParseComment(r.FormValue("text"))
	if !f.Validate() {
		data := baseContext(r)
		data["form"] = f
		data["post"] = post
		h.render.HTML(w, http.StatusOK, "comments.html", data)
		return
	}

	if _, err := h.commentService.Add(r.Context(), post.ID, user.ID, f.Text); err != nil {
		log.Printf("[ERROR] Create comment: post=%d user=%d err=%v", post.ID, user.ID, err)
		httputil.ServerError(h.render, w)
		return
	}

	httputil.Redirect(w, r, "/"+username+"/"+postIDRaw+"/")
}
