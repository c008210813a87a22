package server

import (
	"fmt"
	"time"

	"backend-workhub/internal/admin"
	"backend-workhub/internal/auth"
	"backend-workhub/internal/company"
	"backend-workhub/internal/config"
	"backend-workhub/internal/db"
	"backend-workhub/internal/employee"
	"backend-workhub/internal/leave"
	"backend-workhub/internal/shared/response"
	"backend-workhub/internal/stream"
	"backend-workhub/internal/subscription"
	"backend-workhub/internal/workprogress"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

// NewServer builds the fiber app. It fails only on invalid tracker settings.
func NewServer(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	loc, err := time.LoadLocation(cfg.TrackerTimezone)
	if err != nil {
		return nil, fmt.Errorf("tracker timezone %q: %w", cfg.TrackerTimezone, err)
	}
	policy, err := workprogress.ParseHoursPolicy(cfg.TrackerHoursPolicy)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pool,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s, querier(pool), workprogress.NewService(querier(pool), s.Stream, loc, policy))
	return s, nil
}

// Close releases the stream hub's redis subscription.
func (s *Server) Close() {
	s.Stream.Close()
}

func registerRoutes(s *Server, q db.Querier, tracker *workprogress.Service) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	authSvc := auth.NewService(s.Cfg.JWTSecret, q, s.Cfg.BcryptCost)

	api := s.App.Group("/api/v1")
	auth.RegisterRoutes(api.Group("/auth"), authSvc)
	admin.RegisterRoutes(api.Group("/admins"), admin.NewService(q, authSvc), authSvc, jwtMiddleware)
	company.RegisterRoutes(api.Group("/companies"), company.NewService(q, authSvc), authSvc, jwtMiddleware)
	employee.RegisterRoutes(api.Group("/employees"), employee.NewService(q, authSvc), authSvc, jwtMiddleware)
	subscription.RegisterRoutes(api.Group("/subscriptions"), subscription.NewService(q), jwtMiddleware)
	leave.RegisterRoutes(api.Group("/leaves"), leave.NewService(q), jwtMiddleware)
	workprogress.RegisterRoutes(api.Group("/work-progress"), tracker, jwtMiddleware)
	stream.RegisterRoutes(api.Group("/stream"), s.Stream, jwtMiddleware)
}

// querier serves db.Offline until a pool exists, so store routes report 503.
func querier(pool *pgxpool.Pool) db.Querier {
	if pool == nil {
		return db.Offline
	}
	return pool
}
