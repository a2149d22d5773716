// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkfolio_backend/internal/config"
	"linkfolio_backend/internal/firebase"
	"linkfolio_backend/internal/item"
	"linkfolio_backend/internal/jobs"
	"linkfolio_backend/internal/middleware"
	"linkfolio_backend/internal/profile"
	"linkfolio_backend/internal/session"
	"linkfolio_backend/internal/shared"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	sessionHandler *session.Handler
	profileHandler *profile.Handler
	itemHandler    *item.Handler

	// Jobs
	compactionJob *jobs.PositionCompactionJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	sessionHandler *session.Handler,
	profileHandler *profile.Handler,
	itemHandler *item.Handler,
	compactionJob *jobs.PositionCompactionJob,
	firebaseService *firebase.FirebaseService,
	profileService shared.ProfileService,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, profileService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Linkfolio API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	sessionHandler.RegisterRoutes(v1, authMW)
	profileHandler.RegisterRoutes(v1, authMW)
	itemHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		logger:         logger,
		sessionHandler: sessionHandler,
		profileHandler: profileHandler,
		itemHandler:    itemHandler,
		compactionJob:  compactionJob,
		authMW:         authMW,
	}, nil
}

func (s *Server) Start() error {
	if s.compactionJob != nil {
		if err := s.compactionJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start position compaction job", zap.Error(err))
		}
	} else {
		s.logger.Info("Position compaction job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.compactionJob != nil {
		s.compactionJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
