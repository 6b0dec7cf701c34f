// Package server wires the HTTP stack: request hygiene, redirect
// resolution, dynamic page rendering, the contact form, SEO endpoints, and
// the admin JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/craftline/sitecms/internal/auth"
	"github.com/craftline/sitecms/internal/config"
	"github.com/craftline/sitecms/internal/netutil"
	"github.com/craftline/sitecms/internal/redirect"
	"github.com/craftline/sitecms/internal/render"
	"github.com/craftline/sitecms/internal/store/sqlite"
	"github.com/craftline/sitecms/internal/waf"
)

// Server hosts the public site and the admin API.
type Server struct {
	cfg      config.ServerConfig
	site     config.Site
	store    *sqlite.Store
	log      *slog.Logger
	renderer *render.Renderer
	resolver *redirect.Resolver
	contact  *contactLimiter
}

// New assembles a Server from its collaborators.
func New(cfg config.ServerConfig, site config.Site, store *sqlite.Store, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		site:     site,
		store:    store,
		log:      logger,
		renderer: render.New(logger),
		resolver: redirect.NewResolver(store, logger),
		contact:  newContactLimiter(cfg.ContactRate, cfg.ContactBurst),
	}
}

// Handler builds the full middleware chain and route table. Exposed
// separately from Run for handler-level tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/sitemap.xml", s.handleSitemap)
	mux.HandleFunc("/robots.txt", s.handleRobots)
	mux.Handle("/media/", s.mediaHandler())
	mux.HandleFunc("/contact", s.handleContact)
	mux.HandleFunc("/api/redirects", s.handleRedirects)
	mux.HandleFunc("/api/redirects/", s.handleRedirectByID)
	mux.HandleFunc("/api/pages", s.handlePages)
	mux.HandleFunc("/api/pages/", s.handlePageBySlug)
	mux.HandleFunc("/api/leads", s.handleLeads)
	mux.HandleFunc("/api/assets", s.handleAssets)
	mux.HandleFunc("/api/preview/ws", s.handlePreviewWS)
	mux.HandleFunc("/", s.handlePage)

	// Redirect resolution runs ahead of page routing; hygiene checks run
	// ahead of everything.
	handler := s.resolver.Middleware(mux)
	handler = waf.NewMiddleware(waf.Config{Enabled: s.cfg.WAFEnabled}, s.log)(handler)
	return handler
}

// Run serves until ctx is cancelled. With TLS mode auto it terminates TLS
// itself via ACME for the configured host; with off it speaks plain HTTP
// (a reverse proxy in front is assumed).
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	if s.cfg.TLSMode == "auto" {
		host, err := baseHost(s.cfg.BaseURL)
		if err != nil {
			return err
		}
		manager := &autocert.Manager{
			Cache:      autocert.DirCache(s.cfg.CertCacheDir),
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(host, "www."+host),
		}
		httpServer.TLSConfig = manager.TLSConfig()
		go func() {
			s.log.Info("starting HTTPS server", "addr", s.cfg.Listen, "host", host)
			if err := httpServer.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("https server: %w", err)
			}
		}()
	} else {
		go func() {
			s.log.Info("starting HTTP server", "addr", s.cfg.Listen)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	go s.contact.runJanitor(ctx)

	select {
	case <-ctx.Done():
		return shutdownServer(httpServer, 5*time.Second)
	case err := <-errCh:
		_ = shutdownServer(httpServer, 5*time.Second)
		return err
	}
}

// authenticate resolves the request's Bearer key against the stored admin
// key hashes, returning the key id on success.
func (s *Server) authenticate(r *http.Request) (string, bool) {
	key := auth.BearerToken(r)
	if key == "" {
		return "", false
	}
	h := auth.HashKey(key, s.cfg.APIKeyPepper)
	keyID, err := s.store.ResolveAPIKeyID(r.Context(), h)
	if err != nil {
		return "", false
	}
	return keyID, true
}

func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (string, bool) {
	keyID, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return keyID, ok
}

func baseHost(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "", errors.New("invalid base url")
	}
	return netutil.NormalizeHost(u.Host), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func shutdownServer(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
