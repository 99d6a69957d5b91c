// Package server exposes a Gerrit compatible delete-project REST endpoint
// over a directory of bare repositories.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/stuttgart-things/delete-repo/internal/config"
	"github.com/stuttgart-things/delete-repo/internal/deletelog"
	"github.com/stuttgart-things/delete-repo/internal/storage"
)

// Server serves project listing, config and delete calls
type Server struct {
	Config        *config.Config
	Preconditions *Preconditions
	Remover       *storage.Remover
	DeleteLog     *deletelog.Log
	Logger        *log.Logger

	// serializes deletes so two calls never race on the same directory
	mu     sync.Mutex
	engine *gin.Engine
}

// New creates a server for cfg. deleteLog may be nil.
func New(cfg *config.Config, deleteLog *deletelog.Log, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		Config:        cfg,
		Preconditions: &Preconditions{Config: cfg},
		Remover: &storage.Remover{
			BasePath:      cfg.BasePath,
			Archive:       cfg.ArchiveDeletedRepos,
			ArchiveFolder: cfg.ArchiveFolder,
			Logger:        logger,
		},
		DeleteLog: deleteLog,
		Logger:    logger,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	// route on the escaped path so "team%2Frepo" stays one segment
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery(), requestLogger(s.Logger))

	s.register(r)
	s.register(r.Group("/a"))
	return r
}

func (s *Server) register(g gin.IRoutes) {
	g.GET("/projects/", s.listProjects)
	g.PUT("/projects/:name", s.createProject)
	g.GET("/projects/:name/config", s.projectConfig)
	g.POST("/projects/:name/:action", s.deleteProject)
	g.DELETE("/projects/:name/:action", s.deleteProject)
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr, "basePath", s.Config.BasePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
