package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quillfeed/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postColumns is the shared select list for post rows joined with their
// author and (optionally) their group.
const postColumns = `
	p.id, p.author_id, p.group_id, p.text, p.image_url, p.pub_date,
	u.username AS author_username,
	g.title AS group_title, g.slug AS group_slug
`

const postJoins = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id
`

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (author_id, group_id, text, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date
	`
	err := r.db.QueryRowxContext(ctx, query, post.AuthorID, post.GroupID, post.Text, post.ImageURL).
		Scan(&post.ID, &post.PubDate)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByAuthorAndID(ctx context.Context, username string, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + `WHERE p.id = $1 AND u.username = $2`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID, username)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	query := `UPDATE posts SET text = $1, group_id = $2, image_url = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, post.Text, post.GroupID, post.ImageURL, post.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *postRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return total, nil
}

func (r *postRepository) ListPage(ctx context.Context, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + `
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT $1 OFFSET $2`
	return r.selectPosts(ctx, query, limit, offset)
}

func (r *postRepository) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, fmt.Errorf("count group posts: %w", err)
	}
	return total, nil
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + `
		WHERE p.group_id = $1
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	return r.selectPosts(ctx, query, groupID, limit, offset)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, fmt.Errorf("count author posts: %w", err)
	}
	return total, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + `
		WHERE p.author_id = $1
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	return r.selectPosts(ctx, query, authorID, limit, offset)
}

func (r *postRepository) CountFeed(ctx context.Context, userID int64) (int, error) {
	var total int
	query := `
		SELECT COUNT(*)
		FROM posts p
		JOIN follows f ON f.author_id = p.author_id
		WHERE f.user_id = $1
	`
	err := r.db.GetContext(ctx, &total, query, userID)
	if err != nil {
		return 0, fmt.Errorf("count feed posts: %w", err)
	}
	return total, nil
}

func (r *postRepository) ListFeed(ctx context.Context, userID int64, limit, offset int) ([]model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + `
		JOIN follows f ON f.author_id = p.author_id
		WHERE f.user_id = $1
		ORDER BY p.pub_date DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	return r.selectPosts(ctx, query, userID, limit, offset)
}

func (r *postRepository) selectPosts(ctx context.Context, query string, args ...interface{}) ([]model.Post, error) {
	posts := []model.Post{}
	err := r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	return posts, nil
}
