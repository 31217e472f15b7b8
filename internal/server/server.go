// Package server contains the HTTP handlers for the chat core API.
package server

import (
	"context"
	"log"
	"time"

	"clubhouse/internal/config"
	"clubhouse/internal/middleware"
	"clubhouse/internal/models"
	"clubhouse/internal/repository"
	"clubhouse/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	roomRepo      repository.RoomRepository
	memberRepo    repository.MembershipRepository
	messageRepo   repository.MessageRepository
	reactionRepo  repository.ReactionRepository
	globalBanRepo repository.GlobalBanRepository
	userRepo      repository.UserRepository

	chatService       *service.ChatService
	moderationService *service.ModerationService
	roomService       *service.RoomService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer (or a test) establishes DB and Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("clubhouse-api"),
		roomRepo:       repository.NewRoomRepository(db),
		memberRepo:     repository.NewMembershipRepository(db),
		messageRepo:    repository.NewMessageRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
		globalBanRepo:  repository.NewGlobalBanRepository(db),
		userRepo:       repository.NewUserRepository(db),
	}

	server.moderationService = service.NewModerationService(
		server.memberRepo, server.globalBanRepo, server.userRepo)
	server.chatService = service.NewChatService(
		server.roomRepo, server.memberRepo, server.messageRepo,
		server.reactionRepo, server.globalBanRepo,
		server.moderationService.CanModerate)
	server.roomService = service.NewRoomService(db, server.roomRepo, server.memberRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Distributed tracing
	app.Use(middleware.TracingMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Clubhouse Chat Metrics Dashboard",
	}))

	protected := api.Group("", middleware.AuthRequired)

	// Room directory and membership
	rooms := protected.Group("/rooms")
	rooms.Get("/", s.GetMyRooms)
	// Club lifecycle mutations originate from the club-management
	// collaborator, which authenticates with the platform admin role.
	// Coach and direct rooms are self-service for the authenticated user.
	rooms.Post("/club", middleware.RequirePlatformAdmin, s.CreateClubRoom)
	rooms.Post("/coach", s.CreateCoachRoom)
	rooms.Post("/direct", s.CreateDirectRoom)
	rooms.Post("/club/:clubId/members", middleware.RequirePlatformAdmin, s.AddClubMember)
	// Specific /:id/:resource routes BEFORE generic /:id route
	rooms.Get("/:id/members", s.GetRoomMembers)
	rooms.Get("/:id/messages", s.GetMessages)
	rooms.Post("/:id/messages", middleware.RateLimit(
		s.redis, s.sendRateLimit(), time.Minute, "send_message"), s.SendMessage)
	rooms.Post("/:id/read", s.MarkRoomRead)
	rooms.Get("/:id/unread", s.GetUnreadCount)
	rooms.Post("/:id/bans/:userId", s.BanFromRoom)
	rooms.Delete("/:id/bans/:userId", s.UnbanFromRoom)
	rooms.Get("/:id/bans", s.GetRoomBans)
	rooms.Get("/:id", s.GetRoom)

	// Message lifecycle
	messages := protected.Group("/messages")
	messages.Put("/:id", s.EditMessage)
	messages.Delete("/:id", s.DeleteMessage)
	messages.Post("/:id/reactions", s.ToggleReaction)

	// Reaction removal by reaction ID
	protected.Delete("/reactions/:id", s.RemoveReaction)

	// Platform-level moderation
	moderation := protected.Group("/moderation", middleware.RequirePlatformAdmin)
	moderation.Get("/bans", s.GetGlobalBans)
	moderation.Post("/bans/:userId", s.GlobalBan)
	moderation.Delete("/bans/:userId", s.GlobalUnban)
}

func (s *Server) sendRateLimit() int {
	if s.config.SendRateLimit > 0 {
		return s.config.SendRateLimit
	}
	return 30
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the fiber app, mounts middleware and routes, and listens on
// the configured port. This is the single wiring path for the HTTP surface;
// cmd/server drives it after the bootstrap layer establishes DB/Redis.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Clubhouse Chat API",
		BodyLimit: 1 * 1024 * 1024, // 1MB, messages are text plus image URLs
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
