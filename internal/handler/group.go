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
)

type GroupHandler struct {
	groupService *service.GroupService
	postService  *service.PostService
	render       render.Renderer
}

func NewGroupHandler(groupService *service.GroupService, postService *service.PostService, rnd render.Renderer) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		postService:  postService,
		render:       rnd,
	}
}

// Feed handles GET /group/{slug}/
// One page of the group's posts; an unknown slug is a 404.
func (h *GroupHandler) Feed(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	group, err := h.groupService.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, model.ErrGroupNotFound) {
			httputil.NotFound(h.render, w, r)
			return
		}
		log.Printf("[ERROR] Group feed handler: slug=%s err=%v", slug, err)
		httputil.ServerError(h.render, w)
		return
	}

	page, err := h.postService.ListByGroup(r.Context(), group, r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[ERROR] Group feed posts: slug=%s err=%v", slug, err)
		httputil.ServerError(h.render, w)
		return
	}

	data := baseContext(r)
	data["group"] = group
	data["page"] = page
	h.render.HTML(w, http.StatusOK, "group.html", data)
}
