// Package server hosts the browser UI: a single page that starts a
// generation, follows its progress over a websocket, previews the rendered
// ebook and downloads the exported PDF.
package server

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/gorilla/websocket"

	"github.com/alnah/go-ebookgen"
)

//go:embed static/index.html
var staticFS embed.FS

// DefaultRateLimit is the number of generate requests allowed per client
// per minute.
const DefaultRateLimit = 10

const shutdownTimeout = 10 * time.Second

// Generator is the part of ebookgen.Generator the server drives.
type Generator interface {
	Start(ctx context.Context, topic string) (string, error)
	StartExport(ctx context.Context) error
	Cancel() bool
	Snapshot() ebookgen.Snapshot
	Subscribe() (<-chan ebookgen.Snapshot, func())
	Document(ctx context.Context) (*ebookgen.Document, error)
}

var _ Generator = (*ebookgen.Generator)(nil)

// Server routes HTTP requests to a Generator.
type Server struct {
	gen       Generator
	log       *slog.Logger
	baseCtx   context.Context
	rateLimit int
	router    chi.Router
	upgrader  websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRateLimit sets generate requests allowed per client per minute.
// Zero disables the limit.
func WithRateLimit(n int) Option {
	return func(s *Server) {
		s.rateLimit = n
	}
}

// WithBaseContext sets the context background runs derive from. Runs
// outlive the request that started them, so they never use its context.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// New builds the router.
func New(gen Generator, opts ...Option) *Server {
	s := &Server{
		gen:       gen,
		log:       slog.New(slog.DiscardHandler),
		baseCtx:   context.Background(),
		rateLimit: DefaultRateLimit,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.With(s.generateLimiter()).Post("/generate", s.handleGenerate)
		r.Get("/state", s.handleState)
		r.Get("/ebook", s.handleEbook)
		r.Post("/export", s.handleExport)
		r.Get("/download", s.handleDownload)
		r.Post("/cancel", s.handleCancel)
	})
	r.Get("/ws", s.handleWebSocket)

	s.router = r
}

func (s *Server) generateLimiter() func(http.Handler) http.Handler {
	if s.rateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(s.rateLimit, time.Minute)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and cancels any active run.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.gen.Cancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

// requestLogger logs one line per request with chi's request ID.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
