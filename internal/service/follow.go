package service

import (
	"context"
	"log"

	"quillfeed/internal/model"
	"quillfeed/internal/repository"
)

// FollowService owns the directed subscription edges between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates the edge follower -> author. Following yourself is a silent
// no-op, and following someone twice leaves exactly one edge.
func (s *FollowService) Follow(ctx context.Context, followerID int64, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}

	if author.ID == followerID {
		return nil
	}

	inserted, err := s.followRepo.Create(ctx, followerID, author.ID)
	if err != nil {
		return err
	}
	if inserted {
		log.Printf("[Follow] user=%d now follows author=%d", followerID, author.ID)
	}
	return nil
}

// Unfollow removes the edge follower -> author if present. A missing edge is
// not an error.
func (s *FollowService) Unfollow(ctx context.Context, followerID int64, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, followerID, author.ID)
}

// Status reports whether the viewer follows the author and the author's
// follower count. An anonymous viewer (nil) never follows anyone.
func (s *FollowService) Status(ctx context.Context, viewerID *int64, author *model.User) (bool, int, error) {
	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return false, 0, err
	}

	if viewerID == nil {
		return false, followers, nil
	}

	following, err := s.followRepo.Exists(ctx, *viewerID, author.ID)
	if err != nil {
		return false, 0, err
	}
	return following, followers, nil
}
