package server

import (
	"github.com/evanjt/veloq-sub002/internal/auth"
	"github.com/evanjt/veloq-sub002/internal/config"
	"github.com/evanjt/veloq-sub002/internal/ingest"
	"github.com/evanjt/veloq-sub002/internal/sectionperf"
	"github.com/evanjt/veloq-sub002/internal/simplify"
	"github.com/evanjt/veloq-sub002/internal/stream"

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
	Cache  *simplify.Cache
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Cache:  simplify.NewCache(cfg.SimplifyCacheSize),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	sections := s.App.Group("/sections")
	sectionperf.RegisterRoutes(sections, sectionperf.NewService(s.DB, s.Redis, s.Cache, s.Cfg))
	ingest.RegisterRoutes(sections, ingest.NewService(s.DB, s.Redis, s.Stream, s.Cache), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
