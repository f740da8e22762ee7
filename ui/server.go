// Package ui serves the chi-squared web form.
package ui

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"chicuadrado/app"
	"chicuadrado/internal"
	"chicuadrado/internal/config"
	"chicuadrado/internal/container"
	"chicuadrado/internal/dataset"
	"chicuadrado/internal/session"
	"chicuadrado/ui/middleware"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server represents the web server for the chi-squared form
type Server struct {
	router    *gin.Engine
	templates *template.Template
	assets    fs.FS

	config   *config.Config
	loader   *dataset.Loader
	service  *app.TestService
	sessions *session.Store
	cookies  *middleware.SessionCookies
	present  *presenter
	logger   *internal.Logger
}

// NewServer wires the routes against the container's services.
// assets must hold templates/*.html and static/.
func NewServer(c *container.Container, assets fs.FS) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	tmpl, err := parseTemplates(assets)
	if err != nil {
		return nil, err
	}

	cfg := c.Config
	s := &Server{
		router:    gin.New(),
		templates: tmpl,
		assets:    assets,
		config:    cfg,
		loader:    c.Loader,
		service:   c.TestService,
		sessions:  c.Sessions,
		cookies:   middleware.NewSessionCookies(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure),
		present: &presenter{
			service:     c.TestService,
			profiler:    c.Profiler,
			previewRows: cfg.Analysis.PreviewRows,
		},
		logger: c.Logger,
	}
	// multipart parts above this spill to temp files; the loader enforces the real limit
	s.router.MaxMultipartMemory = cfg.Upload.MaxUploadBytes()

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(gin.Recovery(), middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	s.router.GET("/healthz", s.handleHealth)

	// stateless JSON endpoint; no cookie involved
	s.router.POST("/api/tests", s.handleAPITest)

	pages := s.router.Group("/", middleware.EnsureSession(s.cookies, s.sessions, s.logger))
	pages.GET("/", s.handleIndex)
	pages.POST("/upload", s.handleUpload)
	pages.POST("/select", s.handleSelect)
	pages.POST("/theme", s.handleTheme)
	pages.POST("/reset", s.handleReset)
	pages.GET("/report", s.handleReport)
	return nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting chi-squared UI on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down UI server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
