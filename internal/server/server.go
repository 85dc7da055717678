// Package server is the reference record store the dashboard talks to:
// a small JSON API over SQLite or Postgres.
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"
)

var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

type Options struct {
	InfoLog  *log.Logger
	ErrorLog *log.Logger
	// AllowedOrigins for CORS; nil uses DefaultAllowedOrigins.
	AllowedOrigins []string
}

type Server struct {
	repo     *Repository
	infoLog  *log.Logger
	errorLog *log.Logger
	cors     *cors.Cors
}

func New(repo *Repository, opts Options) *Server {
	infoLog := opts.InfoLog
	if infoLog == nil {
		infoLog = log.New(io.Discard, "", 0)
	}
	errorLog := opts.ErrorLog
	if errorLog == nil {
		errorLog = log.New(io.Discard, "", 0)
	}
	origins := opts.AllowedOrigins
	if origins == nil {
		origins = DefaultAllowedOrigins
	}
	return &Server{
		repo:     repo,
		infoLog:  infoLog,
		errorLog: errorLog,
		cors: cors.New(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Accept", "X-Request-ID"},
			AllowCredentials: true,
		}),
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		ErrorLog:     s.errorLog,
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.infoLog.Printf("Starting server on %s (driver=%s)", addr, s.repo.Driver())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.infoLog.Printf("Shutting down server on %s", addr)
		return srv.Shutdown(shutdownCtx)
	}
}
