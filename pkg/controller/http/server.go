package http

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/mdview/pkg/anchor"
	"github.com/m-mizutani/mdview/pkg/domain/interfaces"
)

//go:embed static
var staticFS embed.FS

// config holds internal HTTP server configuration
type config struct {
	addr         string
	githubClient interfaces.GitHubClient
	styleSheet   string
	settleDelay  time.Duration
	sentry       bool
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithGitHubClient enables the GitHub backed preview pages
func WithGitHubClient(client interfaces.GitHubClient) Option {
	return func(c *config) {
		c.githubClient = client
	}
}

// WithStyleSheet sets the CSS served for highlighted code
func WithStyleSheet(css string) Option {
	return func(c *config) {
		c.styleSheet = css
	}
}

// WithSettleDelay sets the scroll delay advertised to preview pages
func WithSettleDelay(d time.Duration) Option {
	return func(c *config) {
		c.settleDelay = d
	}
}

// WithSentry reports request panics and server errors to the initialized Sentry client
func WithSentry(enabled bool) Option {
	return func(c *config) {
		c.sentry = enabled
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	previewUC interfaces.PreviewUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:        "localhost:8080",
		settleDelay: anchor.DefaultSettleDelay,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open static assets")
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	if cfg.sentry {
		router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	// Health check
	router.Get("/health", handleHealth)

	// Static assets
	router.Get("/static/highlight.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		if _, err := w.Write([]byte(cfg.styleSheet)); err != nil {
			ctxlog.From(r.Context()).Error("Failed to write stylesheet", "error", err)
		}
	})
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Preview endpoints
	previewHandler := NewPreviewHandler(previewUC, cfg.githubClient, cfg.settleDelay)
	router.Post("/api/v1/preview", previewHandler.HandleAPI)
	if cfg.githubClient != nil {
		router.Get("/repos/{owner}/{repo}/contents/*", previewHandler.HandlePage)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
