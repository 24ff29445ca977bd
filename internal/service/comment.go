package service

import (
	"context"

	"quillfeed/internal/model"
	"quillfeed/internal/repository"
)

// CommentService owns comment reads and writes for a post.
type CommentService struct {
	commentRepo repository.CommentRepository
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// ListForPost returns the post's comments newest first.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// Add persists a comment by authorID on the post. created is set by the
// store at insert time.
func (s *CommentService) Add(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	if text == "" {
		return nil, model.ErrCommentTextRequired
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
