package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/http-api/handler"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
	"reviewhub/internal/pkg/notify"
	"reviewhub/internal/pkg/ratelimit"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Rate limiting for the open auth endpoints: shared bucket via redis
	// when configured, per-process fallback otherwise.
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis url", slog.String("error", err.Error()))
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		limiter = ratelimit.NewRedisLimiter(rdb, "reviewhub:ratelimit:auth", cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("using redis rate limiter")
	} else {
		limiter = ratelimit.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("using local rate limiter")
	}

	notifier := notify.NewEmailNotifier(cfg, logger)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, notifier, logger, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, genreRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	genreHandler := handler.NewGenreHandler(genreService)
	titleHandler := handler.NewTitleHandler(titleService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	commentHandler := handler.NewCommentHandler(commentService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(limiter, logger))
	authHandler.RegisterRoutes(auth)

	users := api.Group("/users")
	users.Use(middleware.RequireAuth(authService))
	userHandler.RegisterRoutes(users)

	// Catalog and review trees: reads stay open to anonymous callers,
	// write policies are evaluated per handler.
	categories := api.Group("/categories")
	categories.Use(middleware.OptionalAuth(authService))
	categoryHandler.RegisterRoutes(categories)

	genres := api.Group("/genres")
	genres.Use(middleware.OptionalAuth(authService))
	genreHandler.RegisterRoutes(genres)

	titles := api.Group("/titles")
	titles.Use(middleware.OptionalAuth(authService))
	titleHandler.RegisterRoutes(titles)
	reviewHandler.RegisterRoutes(titles)
	commentHandler.RegisterRoutes(titles)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", slog.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
