// Package api serves the scripture store to the operator dashboard over
// HTTP, with a WebSocket stream announcing reloads.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
	"github.com/FocuswithJustin/ChurchProjection/internal/server"
)

// ShutdownTimeout bounds graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// Server is the dashboard API.
type Server struct {
	cfg     Config
	store   *scripture.Store
	engine  *scripture.Engine
	loader  *scripture.Loader
	hub     *Hub
	metrics *Metrics
	started time.Time
}

// New builds a server answering from engine's store. When loader is not
// nil, every load pass is pushed to WebSocket clients and /reload is
// enabled.
func New(cfg Config, engine *scripture.Engine, loader *scripture.Loader) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		store:   engine.Store(),
		engine:  engine,
		loader:  loader,
		hub:     NewHub(),
		metrics: NewMetrics(),
		started: time.Now(),
	}
	s.hub.welcome = s.welcome
	s.hub.onCount = s.metrics.setClients
	if loader != nil {
		loader.Subscribe(s.onLoad)
	}
	return s, nil
}

// Hub returns the event hub. Run starts it; callers using Handler directly
// must run it themselves.
func (s *Server) Hub() *Hub { return s.hub }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) onLoad(report scripture.LoadReport) {
	s.metrics.observeLoad(s.store, report)
	s.hub.Broadcast(LoadedEvent(report))
}

// welcome sends late joiners the current version list once the first load
// has finished.
func (s *Server) welcome() ([]byte, bool) {
	if !s.store.IsLoaded() {
		return nil, false
	}
	data, err := json.Marshal(LoadedEvent(scripture.LoadReport{Versions: s.store.Versions()}))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /versions", s.handleVersions)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /verse", s.handleVerse)
	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /books/canonical", s.handleCanonicalBooks)
	mux.HandleFunc("GET /books/name", s.handleBookName)
	mux.HandleFunc("GET /chapters", s.handleChapters)
	mux.HandleFunc("GET /verses", s.handleVerses)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("GET /ws", s.hub.ServeWS(s.cfg.AllowedOrigins))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("/", s.handleRoot)

	return mux
}

// Handler returns the routes wrapped in the middleware chain: security
// headers, auth, rate limiting, CORS, then request IDs and access logging
// outermost.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = server.SecurityHeaders(server.APICSPConfig(), s.routes())

	if s.cfg.Auth.Enabled {
		handler = AuthMiddleware(s.cfg.Auth, handler)
		logging.SecurityEvent("authentication_configured", "api", "enabled", true)
	} else {
		logging.SecurityEvent("authentication_configured", "api", "enabled", false,
			"note", "all requests allowed")
	}

	if s.cfg.RateLimit.RequestsPerSecond > 0 {
		handler = NewRateLimiter(s.cfg.RateLimit).Middleware(handler)
		logging.Info("rate limiting enabled",
			"requests_per_second", s.cfg.RateLimit.RequestsPerSecond,
			"burst", s.cfg.RateLimit.Burst)
	}

	handler = server.CORSMiddleware(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	handler = server.TimingMiddleware(handler)
	return logging.CombinedMiddleware(handler)
}

// Run serves until ctx is cancelled, then shuts down gracefully. The hub
// runs for the lifetime of the call.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	protocol, wsProtocol := "http", "ws"
	if s.cfg.TLS.Enabled {
		protocol, wsProtocol = "https", "wss"
		logging.Info("TLS enabled", "cert_file", s.cfg.TLS.CertFile)
	}
	logging.ServerStartup("rest_api", protocol, s.cfg.Port, "websocket_protocol", wsProtocol)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		var err error
		if s.cfg.TLS.Enabled {
			err = srv.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
