package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/ButyrinIA/portfolio/internal/blog"
	"github.com/ButyrinIA/portfolio/internal/config"
	"github.com/ButyrinIA/portfolio/internal/metrics"
	"github.com/ButyrinIA/portfolio/internal/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	cfg     *config.Config
	blog    *blog.Service
	handler *gin.Engine
}

func New(cfg *config.Config, svc *blog.Service) *Server {
	s := &Server{cfg: cfg, blog: svc}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(metrics.Handler())
	r.Use(cors.New(corsConfig(s.cfg.CORS.AllowedOrigins)))

	api := r.Group("/api")
	api.GET("/posts", s.listPosts)
	api.GET("/posts/:id", s.getPost)
	api.POST("/posts/:id/view", s.recordView)
	api.POST("/contact", s.submitContact)

	r.GET("/health", s.health)
	r.GET("/metrics", metrics.Exposer())
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, middlewares.RequestIDHeader)
	cfg.ExposeHeaders = []string{middlewares.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run обслуживает запросы до отмены ctx, затем дожидается текущих
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
