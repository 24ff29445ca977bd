package model

import "errors"

// Group is a named topic that posts may be filed under. Groups have an
// independent lifecycle: deleting a group detaches its posts (group set to
// null) rather than deleting them.
type Group struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
}

// Group constraints
const (
	MaxGroupTitleLength = 200
)

// Group errors
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupTitleRequired = errors.New("group title is required")
	ErrGroupTitleTooLong  = errors.New("group title too long")
	ErrGroupSlugTaken     = errors.New("group slug already taken")
)
