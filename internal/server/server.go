// Package server serves the interactive graph over HTTP: a browser shell,
// a small read-only API over the dataset, and per-viewer sessions that
// stream scene frames as server-sent events.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/logger"
)

// Options configures a Server.
type Options struct {
	Addr    string
	Title   string
	Compact bool
	Manager ManagerOptions
	// Heartbeat is the interval of keep-alive comments on frame streams.
	Heartbeat time.Duration
	// ReapInterval is how often idle sessions are collected.
	ReapInterval time.Duration
}

// Server is the HTTP front of ecomap.
type Server struct {
	echo     *echo.Echo
	doc      *dataset.Document
	opts     Options
	sessions *Manager
}

// New builds a server for doc. Routes are registered immediately.
func New(doc *dataset.Document, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.Title == "" {
		opts.Title = "Travel & Tourism Ecosystem Map"
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 15 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))

	s := &Server{
		echo:     e,
		doc:      doc,
		opts:     opts,
		sessions: NewManager(doc, opts.Manager),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/api/health", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/archetypes", s.handleArchetypes)
	api.GET("/nodes/:id", s.handleNode)
	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id/stream", s.handleStream)
	api.POST("/sessions/:id/events", s.handleEvent)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// Start listens on the configured address until ctx is done, then shuts
// down gracefully and stops every session.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", s.opts.Addr)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.sessions.Close()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "err", err)
		return err
	}
	return nil
}

// Reap runs the idle-session collector until ctx is done.
func (s *Server) Reap(ctx context.Context) error {
	return s.sessions.RunReaper(ctx, s.opts.ReapInterval)
}
