package main

import (
	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/internal/api"
	"github.com/FocuswithJustin/ChurchProjection/internal/config"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
	"github.com/FocuswithJustin/ChurchProjection/internal/watch"
)

// ServeCmd runs the dashboard API, optionally reloading on source changes.
type ServeCmd struct {
	Port  int  `short:"p" help:"Listen port (default: server.port from config)"`
	Watch bool `short:"w" help:"Reload when Bible sources change (default: watch.enabled from config)"`
}

func apiConfig(cfg *config.Config) api.Config {
	return api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit: api.RateLimiterConfig{
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
			TrustProxyHeaders: cfg.Server.RateLimit.TrustProxyHeaders,
		},
		Auth: api.AuthConfig{
			Enabled: cfg.Server.Auth.Enabled,
			APIKey:  cfg.Server.Auth.APIKey,
		},
		TLS: api.TLSConfig{
			Enabled:  cfg.Server.TLS.Enabled,
			CertFile: cfg.Server.TLS.CertFile,
			KeyFile:  cfg.Server.TLS.KeyFile,
		},
		DefaultVersion: cfg.DefaultVersion,
		BuildVersion:   version,
	}
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.Watch {
		cfg.Watch.Enabled = true
	}

	ctx, stop := signalContext()
	defer stop()

	store := scripture.NewStore()
	loader := scripture.NewLoader(store, scripture.WithCandidates(scripture.DefaultCandidates(cfg.BibleDir)...))
	srv, err := api.New(apiConfig(cfg), scripture.NewEngine(store, cfg.SearchOptions()), loader)
	if err != nil {
		return err
	}

	g2, ctx := errgroup.WithContext(ctx)
	g2.Go(func() error { return srv.Run(ctx) })
	g2.Go(func() error {
		// Serve immediately; the store answers empty until this pass lands
		// and /health reports "loading" meanwhile.
		if _, err := loader.Load(ctx); err != nil {
			return err
		}
		if !cfg.Watch.Enabled {
			return nil
		}
		dir, ok := loader.ResolveDir()
		if !ok {
			logging.Warn("watch requested but no bible directory was found")
			return nil
		}
		return watch.New(dir, cfg.DebounceDuration(), loader).Run(ctx)
	})
	return g2.Wait()
}
