// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "farmsphere/docs" // swagger docs
	"farmsphere/internal/cache"
	"farmsphere/internal/config"
	"farmsphere/internal/database"
	"farmsphere/internal/inference"
	"farmsphere/internal/middleware"
	"farmsphere/internal/models"
	"farmsphere/internal/notifications"
	"farmsphere/internal/repository"
	"farmsphere/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const bodyLimit = 16 * 1024 * 1024

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	migrator       *database.Migrator
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	notifier   *notifications.Notifier
	chatHub    *notifications.ChatHub
	classifier *inference.Classifier

	userService       *service.UserService
	postService       *service.PostService
	commentService    *service.CommentService
	activityService   *service.ActivityService
	chatService       *service.ChatService
	cropHealthService *service.CropHealthService
}

// NewServer connects the store, Redis and the model server. Store and
// model failures are logged and the server starts degraded.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	redisClient := cache.NewClient(ctx, cfg.RedisURL)

	classifier, err := inference.Load(ctx, cfg)
	if err != nil {
		middleware.Logger.Warn("Model not loaded, /predict will return 500", slog.String("error", err.Error()))
		classifier = nil
	}

	s := NewServerWithDeps(cfg, db, redisClient, classifier)
	if err := s.migrator.Ensure(ctx); err != nil {
		middleware.Logger.Warn("Database unavailable at startup, serving degraded", slog.String("error", err.Error()))
	}
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient and classifier may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, classifier *inference.Classifier) *Server {
	return newServer(cfg, db, redisClient, classifier, nil)
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, classifier *inference.Classifier, now service.Clock) *Server {
	c := cache.New(redisClient)
	notifier := notifications.NewNotifier(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("farmsphere-api"),
		migrator:       database.NewMigrator(db, database.DefaultMigrationRetry),
		notifier:       notifier,
		chatHub:        notifications.NewChatHub(),
		classifier:     classifier,
	}

	s.userService = service.NewUserService(repository.NewUserRepository(db, c), now)
	s.postService = service.NewPostService(repository.NewPostRepository(db, c), now)
	s.commentService = service.NewCommentService(repository.NewCommentRepository(db, c), now)
	s.activityService = service.NewActivityService(repository.NewActivityRepository(db), now)
	s.chatService = service.NewChatService(repository.NewChatRepository(db), notifier, now)
	s.cropHealthService = service.NewCropHealthService(repository.NewCropHealthRepository(db), now)
	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Post("/predict", s.requireSchema, middleware.RateLimit(s.redis, 20, time.Minute, "predict"), s.Predict)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api", s.requireSchema)
	api.Get("/health", s.APIHealthCheck)

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Define specific /:id/:resource routes BEFORE generic /:id route
	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(s.redis, 20, time.Minute, "create_user"), s.CreateUser)
	users.Get("/:id/saved-posts", s.GetSavedPosts)
	users.Get("/:id/activities", s.GetActivities)
	users.Post("/:id/activities", s.CreateActivity)
	users.Get("/:id/crop-health", s.GetDiagnoses)
	users.Post("/:id/crop-health", s.CreateDiagnosis)
	users.Patch("/:id", s.UpdateUser)
	users.Get("/:id", s.GetUser)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 30, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/like", s.ToggleLike)
	posts.Get("/:id/likes", s.GetLikes)
	posts.Post("/:id/save", s.ToggleSave)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	chats := api.Group("/chats")
	chats.Get("/:id/messages", s.GetMessages)
	chats.Post("/:id/messages", middleware.RateLimit(s.redis, 60, time.Minute, "send_chat"), s.SendMessage)
	chats.Get("/:id/ws", requireWebSocket, s.ChatStreamHandler())
}

// App builds the Fiber app with middleware and routes. It is created once.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   "FarmSphere API",
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "Unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// StartWiring connects the chat hub to the notifier until Shutdown.
func (s *Server) StartWiring() {
	if s.shutdownFn != nil {
		return
	}
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())
	if err := s.chatHub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		middleware.Logger.Error("failed to start chat hub wiring", slog.String("error", err.Error()))
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	s.StartWiring()

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the subscriber goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.chatHub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down chat hub", slog.String("error", err.Error()))
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}

// HealthCheck godoc
// @Summary Service health
// @Description Reports model and database availability.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "ok",
		"model_loaded":       s.classifier != nil,
		"model_classes":      s.modelClasses(),
		"database_connected": s.databaseConnected(c.UserContext()),
	})
}

func (s *Server) modelClasses() int {
	if s.classifier == nil {
		return 0
	}
	return len(s.classifier.Labels())
}

// APIHealthCheck handles GET /api/health
func (s *Server) APIHealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "ok",
		"database_connected": s.databaseConnected(c.UserContext()),
	})
}

func (s *Server) databaseConnected(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx, s.db); err != nil {
		return false
	}
	_ = s.migrator.Ensure(ctx)
	return true
}

// requireSchema finishes a migration that failed at startup before a data
// route runs. Failures fall through and the handler reports the store error.
func (s *Server) requireSchema(c *fiber.Ctx) error {
	_ = s.migrator.Ensure(c.UserContext())
	return c.Next()
}
