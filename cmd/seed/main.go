// Command seed populates a development database with a few users, groups,
// posts, comments, and follow edges.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quillfeed/internal/config"
	"quillfeed/internal/database"
	"quillfeed/internal/model"
	"quillfeed/internal/repository"
	"quillfeed/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo)

	users := map[string]*model.User{}
	for _, username := range []string{"alice", "bob", "carol"} {
		user, err := userService.Register(ctx, username, "password123")
		if err != nil {
			if errors.Is(err, model.ErrUsernameTaken) {
				user, err = userRepo.GetByUsername(ctx, username)
				if err != nil {
					return fmt.Errorf("load existing user %s: %w", username, err)
				}
			} else {
				return fmt.Errorf("register %s: %w", username, err)
			}
		}
		users[username] = user
		log.Printf("user %s id=%d", username, user.ID)
	}

	groups := map[string]*model.Group{}
	for _, g := range []struct{ title, description string }{
		{"Cooking", "Recipes and kitchen experiments"},
		{"Travel Notes", "Where to go and what to skip"},
	} {
		group, err := groupService.Create(ctx, g.title, "", g.description)
		if err != nil {
			if errors.Is(err, model.ErrGroupSlugTaken) {
				group, err = groupRepo.GetBySlug(ctx, service.Slugify(g.title))
				if err != nil {
					return fmt.Errorf("load existing group %s: %w", g.title, err)
				}
			} else {
				return fmt.Errorf("create group %s: %w", g.title, err)
			}
		}
		groups[g.title] = group
		log.Printf("group %s slug=%s", group.Title, group.Slug)
	}

	cooking := groups["Cooking"].ID
	posts := []*model.Post{
		{AuthorID: users["alice"].ID, Text: "First loaf of sourdough out of the oven.", GroupID: &cooking},
		{AuthorID: users["alice"].ID, Text: "Day two: the starter is alive."},
		{AuthorID: users["bob"].ID, Text: "Packing for a week in the mountains."},
	}
	for _, p := range posts {
		if err := postRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
	}

	comment := &model.Comment{
		PostID:   posts[0].ID,
		AuthorID: users["bob"].ID,
		Text:     "Looks delicious!",
	}
	if err := commentRepo.Create(ctx, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	if _, err := followRepo.Create(ctx, users["bob"].ID, users["alice"].ID); err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	if _, err := followRepo.Create(ctx, users["carol"].ID, users["alice"].ID); err != nil {
		return fmt.Errorf("create follow: %w", err)
	}

	log.Println("Seed data ready")
	return nil
}
