package service

import (
	"context"
	"strings"
	"unicode"

	"quillfeed/internal/model"
	"quillfeed/internal/repository"
)

// GroupService owns group reads and creation. Groups are created out of band
// (seeding, operator tooling), not by the request handlers.
type GroupService struct {
	groupRepo repository.GroupRepository
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

// Create validates and persists a group. An empty slug is derived from the
// title.
func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, model.ErrGroupTitleRequired
	}
	if len(title) > model.MaxGroupTitleLength {
		return nil, model.ErrGroupTitleTooLong
	}

	if slug == "" {
		slug = Slugify(title)
	}

	group := &model.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Slugify lowers the string and collapses anything that is not a letter,
// digit, or underscore into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
