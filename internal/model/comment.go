package model

import (
	"errors"
	"time"
)

// Comment is a text reply attached to exactly one post. Created is set once
// at insert time; the post page lists comments newest first.
type Comment struct {
	ID       int64     `db:"id"`
	PostID   int64     `db:"post_id"`
	AuthorID int64     `db:"author_id"`
	Text     string    `db:"text"`
	Created  time.Time `db:"created"`

	// Joined field (not in the comments table)
	AuthorUsername string `db:"author_username"`
}

// Comment errors
var (
	ErrCommentTextRequired = errors.New("comment text is required")
)
