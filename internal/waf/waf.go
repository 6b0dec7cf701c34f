// Package waf implements a small request-hygiene middleware that rejects
// the scanner and exploit probes every public website attracts (WordPress
// probes, traversal attempts, SQL injection in query strings) before they
// reach the CMS routing stack.
package waf

import (
	"log/slog"
	"net/http"

	"github.com/craftline/sitecms/internal/netutil"
)

// Config controls middleware behaviour.
type Config struct {
	Enabled bool
	// AuditOnly logs matched rules without blocking the request.
	AuditOnly bool
}

type firewall struct {
	rules     []rule
	log       *slog.Logger
	auditOnly bool
}

var forbiddenBody = []byte("Forbidden\n")

// NewMiddleware returns an http.Handler middleware that checks every
// request against the built-in ruleset and answers 403 on a match. The
// /healthz endpoint is always exempt. With cfg.Enabled false the returned
// middleware is a no-op passthrough.
func NewMiddleware(cfg Config, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		fw := &firewall{
			rules:     defaultRules(),
			log:       logger,
			auditOnly: cfg.AuditOnly,
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			if matched, ruleName := fw.check(r); matched {
				msg := "blocked request"
				if fw.auditOnly {
					msg = "matched request (audit)"
				}
				fw.log.Warn(msg,
					"rule", ruleName,
					"method", r.Method,
					"uri", r.RequestURI,
					"remote", netutil.ClientIP(r),
					"ua", r.UserAgent(),
				)
				if fw.auditOnly {
					next.ServeHTTP(w, r)
					return
				}

				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("Cache-Control", "no-store")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write(forbiddenBody)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
