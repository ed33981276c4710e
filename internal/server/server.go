// Package server wires repositories, services and handlers into a gin router.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/emilythestrangee/idiom-hub/backend/internal/ai"
	"github.com/emilythestrangee/idiom-hub/backend/internal/cache"
	"github.com/emilythestrangee/idiom-hub/backend/internal/config"
	"github.com/emilythestrangee/idiom-hub/backend/internal/database"
	"github.com/emilythestrangee/idiom-hub/backend/internal/handlers"
	"github.com/emilythestrangee/idiom-hub/backend/internal/middleware"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
	"github.com/emilythestrangee/idiom-hub/backend/internal/repository"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	redis   *redis.Client
	handler *handlers.Handler
}

// NewServer connects to Postgres and Redis and builds the server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	rdb := cache.Connect(ctx, cfg.RedisURL)
	return New(cfg, db, rdb, nil), nil
}

// New builds the server over open connections. rdb may be nil. A nil generator
// selects the configured AI provider.
func New(cfg *config.Config, db database.Service, rdb *redis.Client, generator handlers.IdiomGenerator) *Server {
	gormDB := db.GetDB()

	idiomRepo := repository.NewIdiomRepository(gormDB)
	reactionRepo := repository.NewReactionRepository(gormDB)
	favouriteRepo := repository.NewFavouriteRepository(gormDB)

	threads := service.NewThreadService(
		repository.NewCommentRepository(gormDB),
		repository.NewReplyRepository(gormDB),
		reactionRepo,
		idiomRepo,
	)
	if generator == nil {
		generator = ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	}

	handler := handlers.NewHandler(handlers.Services{
		Ledger:     service.NewLedgerService(repository.NewVoteRepository(gormDB), reactionRepo),
		Threads:    threads,
		Favourites: service.NewFavouriteService(favouriteRepo, idiomRepo),
		Idioms:     service.NewIdiomService(idiomRepo, favouriteRepo, threads, cache.New(rdb)),
		Users:      service.NewUserService(repository.NewUserRepository(gormDB), idiomRepo, favouriteRepo),
		Generator:  generator,
		Tokens:     handlers.TokenIssuer{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL},
	})

	return &Server{cfg: cfg, db: db, redis: rdb, handler: handler}
}

// HTTPServer returns the http.Server serving the routes on the configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
}

// Shutdown releases the database and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	errs = append(errs, s.db.Close())
	observability.Logger.InfoContext(ctx, "server resources released")
	return errors.Join(errs...)
}

func (s *Server) corsConfig() cors.Config {
	origins := s.cfg.Origins()
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.StructuredLogger(),
		middleware.Metrics(),
		cors.New(s.corsConfig()),
	)

	r.GET("/health", func(c *gin.Context) {
		health := s.db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": health["status"], "database": health})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	secret := s.cfg.JWTSecret
	auth := middleware.AuthMiddleware(secret)
	optional := middleware.OptionalAuth(secret)
	h := s.handler

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.GET("/profile", auth, h.Auth.Profile)
		authRoutes.PUT("/profile", auth, h.User.UpdateProfile)

		idioms := api.Group("/idiom")
		idioms.GET("", optional, h.Idiom.GetIdioms)
		idioms.GET("/category", h.Idiom.GetCategories)
		idioms.GET("/my/idioms", auth, h.Idiom.GetMyIdioms)
		idioms.GET("/:id", optional, h.Idiom.GetIdiom)
		idioms.POST("", auth, h.Idiom.CreateIdiom)
		idioms.PUT("/:id", auth, h.Idiom.UpdateIdiom)
		idioms.DELETE("/:id", auth, h.Idiom.DeleteIdiom)
		idioms.POST("/:id/vote", auth, h.Idiom.VoteIdiom)
		idioms.PATCH("/:id/like", auth, h.Idiom.LikeIdiom)
		idioms.PATCH("/:id/dislike", auth, h.Idiom.DislikeIdiom)

		comments := api.Group("/comment")
		comments.GET("/:idiomId", optional, h.Comment.GetComments)
		comments.POST("", auth, h.Comment.CreateComment)
		comments.PUT("/:id", auth, h.Comment.UpdateComment)
		comments.DELETE("/:id", auth, h.Comment.DeleteComment)
		comments.POST("/:id/vote", auth, h.Comment.VoteComment)

		replies := api.Group("/reply")
		replies.POST("", auth, h.Reply.CreateReply)
		replies.PUT("/:id", auth, h.Reply.UpdateReply)
		replies.DELETE("/:id", auth, h.Reply.DeleteReply)
		replies.POST("/:id/vote", auth, h.Reply.VoteReply)

		users := api.Group("/user", auth)
		users.GET("/profile", h.User.GetProfile)
		users.PUT("/profile", h.User.UpdateProfile)
		users.GET("/stats", h.User.GetStats)
		users.GET("/favourites", h.User.GetFavourites)
		users.POST("/favourites/:idiomId", h.User.AddFavourite)
		users.DELETE("/favourites/:idiomId", h.User.RemoveFavourite)

		aiRoutes := api.Group("/ai")
		aiRoutes.POST("/generate-idiom", optional,
			middleware.RateLimit(s.redis, "ai-generate", s.cfg.RateLimitPerMinute, time.Minute),
			h.AI.GenerateIdiom)
	}

	return r
}
