package service

import (
	"context"

	"quillfeed/internal/model"
	"quillfeed/internal/pagination"
	"quillfeed/internal/repository"
)

// PostService owns post listings (with pagination) and post mutations.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	pageSize int
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, pageSize int) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		pageSize: pageSize,
	}
}

// ListAll returns one page of all posts, newest first.
func (s *PostService) ListAll(ctx context.Context, rawPage string) (*model.PostPage, error) {
	total, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	pager := pagination.New(rawPage, total, s.pageSize)
	posts, err := s.postRepo.ListPage(ctx, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, err
	}

	return &model.PostPage{Posts: posts, Pager: pager}, nil
}

// ListByGroup returns one page of the group's posts, newest first.
func (s *PostService) ListByGroup(ctx context.Context, group *model.Group, rawPage string) (*model.PostPage, error) {
	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	pager := pagination.New(rawPage, total, s.pageSize)
	posts, err := s.postRepo.ListByGroup(ctx, group.ID, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, err
	}

	return &model.PostPage{Posts: posts, Pager: pager}, nil
}

// ListByAuthor resolves the author by username and returns one page of their
// posts. An unknown username is a not-found.
func (s *PostService) ListByAuthor(ctx context.Context, username, rawPage string) (*model.User, *model.PostPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, nil, err
	}

	pager := pagination.New(rawPage, total, s.pageSize)
	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, nil, err
	}

	return author, &model.PostPage{Posts: posts, Pager: pager}, nil
}

// ListFeed returns one page of posts whose authors the user follows.
// Membership is evaluated at render time: a post appears iff the follow
// edge exists when the feed is read.
func (s *PostService) ListFeed(ctx context.Context, userID int64, rawPage string) (*model.PostPage, error) {
	total, err := s.postRepo.CountFeed(ctx, userID)
	if err != nil {
		return nil, err
	}

	pager := pagination.New(rawPage, total, s.pageSize)
	posts, err := s.postRepo.ListFeed(ctx, userID, pager.Limit(), pager.Offset())
	if err != nil {
		return nil, err
	}

	return &model.PostPage{Posts: posts, Pager: pager}, nil
}

// Get resolves a post by author username and id. A post id that exists but
// belongs to a different username is a not-found, never a hint that the id
// is taken.
func (s *PostService) Get(ctx context.Context, username string, postID int64) (*model.Post, error) {
	return s.postRepo.GetByAuthorAndID(ctx, username, postID)
}

// Create persists a new post authored by authorID. pub_date is set by the
// store at insert time.
func (s *PostService) Create(ctx context.Context, authorID int64, text string, groupID *int64, imageURL *string) (*model.Post, error) {
	if text == "" {
		return nil, model.ErrPostTextRequired
	}

	post := &model.Post{
		AuthorID: authorID,
		GroupID:  groupID,
		Text:     text,
		ImageURL: imageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update replaces text and group on an existing post. The image is replaced
// only when a new one was uploaded; author and pub_date never change.
func (s *PostService) Update(ctx context.Context, post *model.Post, text string, groupID *int64, imageURL *string) error {
	if text == "" {
		return model.ErrPostTextRequired
	}

	post.Text = text
	post.GroupID = groupID
	if imageURL != nil {
		post.ImageURL = imageURL
	}
	return s.postRepo.Update(ctx, post)
}
