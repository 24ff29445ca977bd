// Package form validates submitted post and comment fields before anything
// touches the store. Validation never persists; it returns either a
// field-keyed error map for re-rendering the originating template, or the
// sanitized values ready for the service layer.
package form

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"quillfeed/internal/model"
)

// GroupLister resolves the optional group reference on a post submission.
type GroupLister interface {
	List(ctx context.Context) ([]model.Group, error)
}

// Errors maps a field name to its validation message.
type Errors map[string]string

// Has reports whether the field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for a field, or "".
func (e Errors) Get(field string) string {
	return e[field]
}

// PostForm carries a post submission: text is required, group and image are
// optional. Values survive a failed validation so the form can re-render
// with what the user typed.
type PostForm struct {
	Text     string
	GroupRaw string // raw "group" field, empty or a group id
	GroupID  *int64 // resolved during validation
	Image    *multipart.FileHeader
	ImageURL *string // set by the handler after a successful upload
	Errors   Errors
}

// ParsePost extracts the post fields from a parsed multipart form.
func ParsePost(text, groupRaw string, image *multipart.FileHeader) *PostForm {
	return &PostForm{
		Text:     strings.TrimSpace(text),
		GroupRaw: strings.TrimSpace(groupRaw),
		Image:    image,
		Errors:   Errors{},
	}
}

// Validate checks the required/optional schema. The optional group must
// reference an existing group; the lookup goes through the repository so a
// stale or forged id is rejected before persistence.
func (f *PostForm) Validate(ctx context.Context, groups GroupLister) (bool, error) {
	if f.Text == "" {
		f.Errors["text"] = "Text is required."
	}

	if f.GroupRaw != "" {
		groupID, err := strconv.ParseInt(f.GroupRaw, 10, 64)
		if err != nil {
			f.Errors["group"] = "Select a valid group."
		} else {
			list, err := groups.List(ctx)
			if err != nil {
				return false, err
			}
			found := false
			for _, g := range list {
				if g.ID == groupID {
					found = true
					break
				}
			}
			if !found {
				f.Errors["group"] = "Select a valid group."
			} else {
				f.GroupID = &groupID
			}
		}
	}

	if f.Image != nil {
		if f.Image.Size > model.MaxPostImageSizeBytes {
			f.Errors["image"] = "Image is too large."
		}
	}

	return len(f.Errors) == 0, nil
}

// CommentForm carries a comment submission: text is required.
type CommentForm struct {
	Text   string
	Errors Errors
}

// ParseComment extracts the comment field from a form submission.
func ParseComment(text string) *CommentForm {
	return &CommentForm{
		Text:   strings.TrimSpace(text),
		Errors: Errors{},
	}
}

// Validate checks that the text is present.
func (f *CommentForm) Validate() bool {
	if f.Text == "" {
		f.Errors["text"] = "Text is required."
	}
	return len(f.Errors) == 0
}
