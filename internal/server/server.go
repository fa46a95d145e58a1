package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"stitchmart/internal/assets"
	"stitchmart/internal/config"
	"stitchmart/internal/database"
	"stitchmart/internal/mailer"
	custommiddleware "stitchmart/internal/middleware"
	"stitchmart/internal/repository"
	"stitchmart/internal/service"
	"stitchmart/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps carries the external clients the server wires together
type Deps struct {
	DB         *sql.DB
	Redis      *redis.Client
	AssetStore assets.Store
	Mailer     mailer.Mailer
	Publisher  service.OrderPublisher
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

// NewServer builds the HTTP server with all repositories, services, and
// handlers wired
func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		KeyPrefix:         "ratelimit",
	}, logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(r.Context(), deps.DB))
	})

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(deps.DB)
	resetTokenRepo := repository.NewPasswordResetTokenRepository(deps.DB)
	categoryRepo := repository.NewCategoryRepository(deps.DB)
	attributeRepo := repository.NewAttributeRepository(deps.DB)
	productRepo := repository.NewProductRepository(deps.DB)
	cartRepo := repository.NewCartRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)
	reviewRepo := repository.NewReviewRepository(deps.DB)

	// Services
	userService := service.NewUserService(userRepo, refreshTokenRepo, resetTokenRepo, deps.Mailer, cfg.JWT.Secret, logger)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, attributeRepo, deps.AssetStore, deps.Redis, logger)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, deps.Publisher, logger)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, productRepo)

	// Handlers
	userHandler := transport.NewUserHandler(userService, cfg.SMTP.ResetURL, logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	reviewHandler := transport.NewReviewHandler(reviewService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	userHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	catalogHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	cartHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	reviewHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	return server
}

// Close releases the server's owned resources
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
