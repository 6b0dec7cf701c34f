// Package redirect resolves legacy-URL redirects ahead of page routing.
//
// The resolver keeps a process-local snapshot of all active redirect rules
// and refreshes it from the store when the snapshot is older than a fixed
// TTL. A store outage never fails a request: the stale snapshot stays in
// service and the refresh is retried on the next evaluation.
package redirect

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/craftline/sitecms/internal/content"
)

// snapshotTTL is the maximum age of the rule snapshot before an evaluation
// triggers a synchronous refresh.
const snapshotTTL = 30 * time.Second

// excludedPrefixes are request paths the resolver never evaluates: assets,
// the admin API, and operational endpoints.
var excludedPrefixes = []string{
	"/media/",
	"/api/",
	"/healthz",
	"/favicon.ico",
	"/robots.txt",
	"/sitemap.xml",
}

// RuleSource is the store-side contract the resolver consumes.
type RuleSource interface {
	ListActiveRedirects(ctx context.Context) ([]content.RedirectRule, error)
}

// Resolver owns the redirect snapshot cache. Create one per process with
// [NewResolver] and install it via [Resolver.Middleware].
type Resolver struct {
	source RuleSource
	log    *slog.Logger

	mu            sync.RWMutex
	rules         map[string]content.RedirectRule // keyed by normalized source path
	lastRefreshed time.Time
}

// NewResolver returns a Resolver with an empty snapshot; the first request
// populates it lazily.
func NewResolver(source RuleSource, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, log: logger}
}

// Middleware evaluates every inbound request against the active rule
// snapshot. On an exact source-path match it short-circuits with the rule's
// redirect; otherwise the request passes through to next.
func (rv *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if excludedPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		rule, ok := rv.Resolve(r.Context(), r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		rv.log.Info("redirect applied",
			"path", r.URL.Path,
			"destination", rule.Destination,
			"code", rule.Code(),
		)
		http.Redirect(w, r, rule.Destination, rule.Code())
	})
}

// Resolve returns the active rule exactly matching path, refreshing the
// snapshot first when it is absent or older than the TTL. Exact string
// matching only; no prefix or pattern rules.
func (rv *Resolver) Resolve(ctx context.Context, path string) (content.RedirectRule, bool) {
	rv.mu.RLock()
	rules := rv.rules
	stale := rules == nil || time.Since(rv.lastRefreshed) > snapshotTTL
	rv.mu.RUnlock()

	if stale {
		// Concurrent requests may each refresh; the replacement is wholesale
		// and idempotent, so redundant fetches are tolerated over a lock.
		if fresh, err := rv.source.ListActiveRedirects(ctx); err != nil {
			rv.log.Warn("redirect snapshot refresh failed; retaining previous snapshot", "err", err)
		} else {
			rules = snapshotFromRules(fresh)
			rv.mu.Lock()
			rv.rules = rules
			rv.lastRefreshed = time.Now()
			rv.mu.Unlock()
		}
	}

	rule, ok := rules[normalizePath(path)]
	return rule, ok
}

// SnapshotAge returns how old the current snapshot is, or false when none
// has been loaded yet. Useful for health reporting and tests.
func (rv *Resolver) SnapshotAge() (time.Duration, bool) {
	rv.mu.RLock()
	defer rv.mu.RUnlock()
	if rv.rules == nil {
		return 0, false
	}
	return time.Since(rv.lastRefreshed), true
}

func snapshotFromRules(rules []content.RedirectRule) map[string]content.RedirectRule {
	m := make(map[string]content.RedirectRule, len(rules))
	for _, r := range rules {
		if !r.Active {
			continue
		}
		key := normalizePath(r.SourcePath)
		// First active rule wins; a duplicate source is a configuration
		// error, not something the resolver arbitrates.
		if _, exists := m[key]; exists {
			continue
		}
		m[key] = r
	}
	return m
}

func excludedPath(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func normalizePath(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
