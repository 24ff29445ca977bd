package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"time"

	"quillfeed/internal/cache"
	"quillfeed/internal/config"
	"quillfeed/internal/database"
	"quillfeed/internal/handler"
	"quillfeed/internal/redis"
	"quillfeed/internal/render"
	"quillfeed/internal/repository"
	"quillfeed/internal/service"
)

// Run wires the whole application together and serves it.
func Run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// The page cache is optional: without redis the index is always fresh.
	var pageCache cache.PageCache
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		defer redisClient.Close()
		pageCache = cache.NewPageCache(redisClient.Client)
	} else {
		log.Println("REDIS_URL not set, index page cache disabled")
	}

	// Image uploads are optional in the same way.
	var media service.ImageUploader
	if mediaService, err := service.NewMediaService(ctx, cfg); err != nil {
		log.Printf("Image uploads disabled: %v", err)
	} else {
		media = mediaService
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.SessionMaxAge)
	groupService := service.NewGroupService(groupRepo)
	postService := service.NewPostService(postRepo, userRepo, cfg.PostsPerPage)
	commentService := service.NewCommentService(commentRepo)
	followService := service.NewFollowService(followRepo, userRepo)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService, renderer),
		PostHandler:    handler.NewPostHandler(postService, groupService, commentService, media, renderer),
		GroupHandler:   handler.NewGroupHandler(groupService, postService, renderer),
		ProfileHandler: handler.NewProfileHandler(postService, followService, renderer),
		CommentHandler: handler.NewCommentHandler(postService, commentService, renderer),
		FollowHandler:  handler.NewFollowHandler(postService, followService, renderer),
		Renderer:       renderer,
		JWTSecret:      cfg.JWTSecret,
		PageCache:      pageCache,
		IndexCacheTTL:  time.Duration(cfg.IndexCacheTTL) * time.Second,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
