package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
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

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// file parts spill to disk.
const maxUploadMemory = 4 << 20

type PostHandler struct {
	postService    *service.PostService
	groupService   *service.GroupService
	commentService *service.CommentService
	media          service.ImageUploader
	render         render.Renderer
}

func NewPostHandler(
	postService *service.PostService,
	groupService *service.GroupService,
	commentService *service.CommentService,
	media service.ImageUploader,
	rnd render.Renderer,
) *PostHandler {
	return &PostHandler{
		postService:    postService,
		groupService:   groupService,
		commentService: commentService,
		media:          media,
		render:         rnd,
	}
}

// Index handles GET /
// One page of all posts, newest first.
func (h *PostHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.postService.ListAll(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		log.Printf("[ERROR] Index handler: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	data := baseContext(r)
	data["page"] = page
	h.render.HTML(w, http.StatusOK, "index.html", data)
}

// View handles GET /{username}/{postID}/
// The post page with its comments (newest first) and an empty comment form.
func (h *PostHandler) View(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
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
		log.Printf("[ERROR] View post handler: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	comments, err := h.commentService.ListForPost(r.Context(), post.ID)
	if err != nil {
		log.Printf("[ERROR] View post comments: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	data := baseContext(r)
	data["author"] = post.AuthorUsername
	data["post"] = post
	data["comments"] = comments
	data["form"] = form.ParseComment("")
	h.render.HTML(w, http.StatusOK, "post.html", data)
}

// New handles GET and POST /new/ (login required).
// GET renders the empty submission form; POST validates and creates the
// post, re-rendering the form with field errors on invalid input.
func (h *PostHandler) New(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, form.ParsePost("", "", nil), nil)
		return
	}

	f, err := h.parsePostForm(r)
	if err != nil {
		log.Printf("[ERROR] New post parse: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	ok, err := f.Validate(r.Context(), h.groupService)
	if err != nil {
		log.Printf("[ERROR] New post validate: %v", err)
		httputil.ServerError(h.render, w)
		return
	}
	if !ok {
		h.renderPostForm(w, r, f, nil)
		return
	}

	if !h.attachImage(w, r, f, nil) {
		return
	}

	if _, err := h.postService.Create(r.Context(), user.ID, f.Text, f.GroupID, f.ImageURL); err != nil {
		log.Printf("[ERROR] Create post: user=%d err=%v", user.ID, err)
		httputil.ServerError(h.render, w)
		return
	}

	httputil.Redirect(w, r, "/")
}

// Edit handles GET and POST /{username}/{postID}/edit/ (login required).
// A non-author is redirected to the post view without any change; the
// author gets the prefilled form and may update text, group, and image.
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	username := chi.URLParam(r, "username")
	postIDRaw := chi.URLParam(r, "postID")

	// The ownership check comes before the existence check: a non-author is
	// silently bounced to the canonical view even for ids that do not exist.
	if username != user.Username {
		httputil.Redirect(w, r, "/"+username+"/"+postIDRaw+"/")
		return
	}

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
		log.Printf("[ERROR] Edit post handler: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	if r.Method == http.MethodGet {
		groupRaw := ""
		if post.GroupID != nil {
			groupRaw = strconv.FormatInt(*post.GroupID, 10)
		}
		h.renderPostForm(w, r, form.ParsePost(post.Text, groupRaw, nil), post)
		return
	}

	f, err := h.parsePostForm(r)
	if err != nil {
		log.Printf("[ERROR] Edit post parse: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	ok, err := f.Validate(r.Context(), h.groupService)
	if err != nil {
		log.Printf("[ERROR] Edit post validate: %v", err)
		httputil.ServerError(h.render, w)
		return
	}
	if !ok {
		h.renderPostForm(w, r, f, post)
		return
	}

	if !h.attachImage(w, r, f, post) {
		return
	}

	if err := h.postService.Update(r.Context(), post, f.Text, f.GroupID, f.ImageURL); err != nil {
		log.Printf("[ERROR] Update post: post=%d err=%v", post.ID, err)
		httputil.ServerError(h.render, w)
		return
	}

	httputil.Redirect(w, r, "/"+username+"/"+postIDRaw+"/")
}

// parsePostForm extracts the submission fields, accepting both multipart
// (with image) and plain form encodings.
func (h *PostHandler) parsePostForm(r *http.Request) (*form.PostForm, error) {
	var header *multipart.FileHeader

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if err != http.ErrNotMultipart {
			return nil, err
		}
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			header = files[0]
		}
	}

	return form.ParsePost(r.FormValue("text"), r.FormValue("group"), header), nil
}

// attachImage uploads the optional image and stores its URL on the form.
// On failure it re-renders the form with an image error and reports false.
func (h *PostHandler) attachImage(w http.ResponseWriter, r *http.Request, f *form.PostForm, post *model.Post) bool {
	if f.Image == nil {
		return true
	}

	result, err := h.uploadPostImage(r.Context(), f.Image)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUploadsDisabled):
			f.Errors["image"] = "Image uploads are not available."
		case errors.Is(err, model.ErrFileTooLarge):
			f.Errors["image"] = "Image is too large."
		case errors.Is(err, model.ErrInvalidImageType):
			f.Errors["image"] = "Unsupported image type."
		default:
			log.Printf("[ERROR] upload post image: %v", err)
			httputil.ServerError(h.render, w)
			return false
		}
		h.renderPostForm(w, r, f, post)
		return false
	}

	f.ImageURL = &result.URL
	return true
}

// uploadPostImage hands the file to the uploader, or reports that uploads
// are not configured on this deployment.
func (h *PostHandler) uploadPostImage(ctx context.Context, header *multipart.FileHeader) (*model.UploadResult, error) {
	if h.media == nil {
		return nil, model.ErrUploadsDisabled
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer file.Close()

	return h.media.UploadPostImage(ctx, file, header)
}

// renderPostForm shows the submission form, optionally bound to an existing
// post when editing.
func (h *PostHandler) renderPostForm(w http.ResponseWriter, r *http.Request, f *form.PostForm, post *model.Post) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		log.Printf("[ERROR] list groups for form: %v", err)
		httputil.ServerError(h.render, w)
		return
	}

	data := baseContext(r)
	data["form"] = f
	data["groups"] = groups
	data["post"] = post
	h.render.HTML(w, http.StatusOK, "new.html", data)
}
