package model

import (
	"errors"
	"time"

	"quillfeed/internal/pagination"
)

// Post is a user-authored text entry, optionally tagged with a group and an
// image. PubDate is set once at creation and never updated; listings order
// by it descending.
type Post struct {
	ID       int64     `db:"id"`
	AuthorID int64     `db:"author_id"`
	GroupID  *int64    `db:"group_id"`
	Text     string    `db:"text"`
	ImageURL *string   `db:"image_url"`
	PubDate  time.Time `db:"pub_date"`

	// Joined fields (not in the posts table)
	AuthorUsername string  `db:"author_username"`
	GroupTitle     *string `db:"group_title"`
	GroupSlug      *string `db:"group_slug"`
}

// PostPage is one bounded window of a post listing plus the navigation
// metadata templates need.
type PostPage struct {
	Posts []Post
	Pager pagination.Pager
}

// Post errors
var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPostTextRequired = errors.New("post text is required")
)
