package repository

import (
	"context"

	"quillfeed/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Delete removes an account; the schema cascades to the user's posts,
	// comments, and follow edges.
	Delete(ctx context.Context, id int64) error
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	// Delete removes the group; the schema sets group_id to null on its
	// posts, it never deletes them.
	Delete(ctx context.Context, id int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByAuthorAndID resolves a post only when it belongs to the named
	// author; any mismatch is a not-found, not a permission error.
	GetByAuthorAndID(ctx context.Context, username string, postID int64) (*model.Post, error)
	// Update persists text, group, and image only. pub_date and author are
	// immutable after creation.
	Update(ctx context.Context, post *model.Post) error

	CountAll(ctx context.Context) (int, error)
	ListPage(ctx context.Context, limit, offset int) ([]model.Post, error)
	CountByGroup(ctx context.Context, groupID int64) (int, error)
	ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]model.Post, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]model.Post, error)
	// CountFeed/ListFeed cover posts whose author is followed by userID.
	CountFeed(ctx context.Context, userID int64) (int, error)
	ListFeed(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost returns the post's comments newest first.
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}

type FollowRepository interface {
	// Create inserts the edge if absent and reports whether a row was
	// actually inserted (get-or-create).
	Create(ctx context.Context, userID, authorID int64) (bool, error)
	// Delete removes the edge if present; an absent edge is not an error.
	Delete(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	CountFollowers(ctx context.Context, authorID int64) (int, error)
}
