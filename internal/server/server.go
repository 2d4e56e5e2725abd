package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/li-k-z/news-crawler/internal/config"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

// Server serves the news API and the optional static frontend.
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	generator Generator
	store     ReportStore
	logger    *slog.Logger
}

// New wires middleware and dependencies into a Server. Routes are
// registered in Run, once the lifecycle context for background runs
// exists.
func New(cfg *config.Config, generator Generator, store ReportStore, logger *slog.Logger) *Server {
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		engine:    gin.New(),
		generator: generator,
		store:     store,
		logger:    logger,
	}
	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger(logger))
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	return s
}

// Run serves until the context ends, then drains in-flight requests.
// Background generation runs triggered over HTTP are bound to ctx as
// well, so shutting the server down also aborts an active run.
func (s *Server) Run(ctx context.Context) error {
	s.routes(NewHandler(s.generator, s.store, ctx, s.logger))

	srv := &http.Server{
		Addr:              s.cfg.ServerAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("HTTP server listening", "addr", s.cfg.ServerAddr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	<-errCh
	return nil
}

// routes registers the API surface and the static frontend.
func (s *Server) routes(h *Handler) {
	api := s.engine.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/news-list", h.NewsList)
	api.GET("/news-detail", h.NewsDetail)
	api.POST("/generate-news", h.GenerateNews)
	api.GET("/generate-status", h.GenerateStatus)

	s.mountStatic()
}

// mountStatic serves the frontend directory when it exists, and a JSON
// hint on the root path when it does not. The file server hangs off
// NoRoute so it cannot shadow the /api group.
func (s *Server) mountStatic() {
	if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
		fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
		s.engine.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		s.logger.Info("serving static frontend", "dir", s.cfg.StaticDir)
		return
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "static frontend directory not found; create " + s.cfg.StaticDir + "/ with an index.html",
		})
	})
}

// requestLogger logs one line per handled request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}
