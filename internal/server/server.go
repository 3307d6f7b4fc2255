package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/content"
	"github.com/ziadkadry99/storyshelf/internal/flipbook"
	"github.com/ziadkadry99/storyshelf/internal/nav"
	"github.com/ziadkadry99/storyshelf/internal/screens"
	"github.com/ziadkadry99/storyshelf/internal/views"
	"github.com/ziadkadry99/storyshelf/internal/worksheets"
)

// MsgBackendMissing is shown on every page while no backend is configured.
const MsgBackendMissing = "Supabase credentials not set. Navigation works; connect backend later."

// Config holds server configuration.
type Config struct {
	Port        int
	AllowAll    bool   // allow all CORS origins (dev mode)
	Home        string // page for "/" and empty hashes
	ContainerID string
	Worksheets  worksheets.StorageConfig
	Shelf       flipbook.Shelf
}

// Server serves the site: server-rendered pages, screen fragments, the JSON
// API and live tabs.
type Server struct {
	cfg        Config
	loader     *screens.Loader
	bridge     *auth.Bridge
	events     *auth.Events
	routes     nav.Routes
	logger     *log.Logger
	notice     string
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. loader, bridge and events are shared by every
// request and tab.
func New(cfg Config, loader *screens.Loader, bridge *auth.Bridge, events *auth.Events, logger *log.Logger) *Server {
	if cfg.Home == "" {
		cfg.Home = nav.DefaultHome
	}
	if cfg.ContainerID == "" {
		cfg.ContainerID = nav.DefaultContainerID
	}
	s := &Server{
		cfg:    cfg,
		loader: loader,
		bridge: bridge,
		events: events,
		logger: logger,
		routes: views.Routes(views.Deps{Home: cfg.Home, Shelf: cfg.Shelf, Logger: logger}),
	}
	if !bridge.Configured() {
		s.notice = MsgBackendMissing
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  s.logger.StandardLog(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		// Live tabs outlive any request timeout.
		r.Get("/ws", s.handleLive)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/", s.handleIndex)
			r.Get("/p/{page}", s.handlePage)
			r.Get("/screens/{id}", s.handleScreen)

			s.registerAuthRoutes(r)
			content.RegisterRoutes(r)
			worksheets.RegisterRoutes(r, s.cfg.Worksheets)
			flipbook.RegisterRoutes(r, s.cfg.Shelf)
		})
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Notice returns the site-wide notice, or "".
func (s *Server) Notice() string { return s.notice }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("storyshelf server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
