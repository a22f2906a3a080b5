// Package server is an in-memory implementation of the todo API, for local
// development and for exercising the client end to end.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tada/internal/model"
)

// Server serves /health and /api/v1/todos over a Store.
type Server struct {
	store  *Store
	log    *log.Logger
	now    func() time.Time
	engine *gin.Engine
}

// New wires the routes. logger may be nil.
func New(store *Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{store: store, log: logger, now: time.Now}
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestLogger(logger), gin.CustomRecovery(s.recovered))

	r.GET("/health", s.health)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/todos", s.listTodos)
		v1.POST("/todos", s.createTodo)
		v1.PATCH("/todos/:id", s.updateTodo)
		v1.DELETE("/todos/:id", s.deleteTodo)
	}

	r.NoRoute(func(c *gin.Context) { s.fail(c, http.StatusNotFound, "Not Found") })
	r.NoMethod(func(c *gin.Context) { s.fail(c, http.StatusMethodNotAllowed, "Method Not Allowed") })

	s.engine = r
	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "api", "/api/v1")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) recovered(c *gin.Context, v any) {
	s.log.Error("panic in handler", "path", c.Request.URL.Path, "panic", v)
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		model.Failure("INTERNAL_SERVER_ERROR", "internal server error", nil, s.now()))
}

// requestLogger logs every request, like a gin.Logger that speaks
// charmbracelet/log.
func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
		}
		if id := c.GetHeader("X-Request-ID"); id != "" {
			fields = append(fields, "request_id", id)
		}

		switch {
		case status >= 500:
			l.Error("request", fields...)
		case status >= 400:
			l.Warn("request", fields...)
		default:
			l.Info("request", fields...)
		}
	}
}
