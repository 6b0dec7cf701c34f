package server

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/craftline/sitecms/internal/content"
	"github.com/craftline/sitecms/internal/netutil"
)

// honeypotField is a hidden form input real visitors leave empty; a filled
// value marks the submission as bot traffic and it is silently accepted but
// never stored.
const honeypotField = "website"

// handleContact accepts contact-form submissions and stores them as leads.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.contact.allow(netutil.ClientIP(r)) {
		http.Error(w, "too many submissions, please try again later", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	thankYou := "/" + s.cfg.ThankYouSlug
	if strings.TrimSpace(r.PostFormValue(honeypotField)) != "" {
		// Pretend success so bots cannot probe the filter.
		http.Redirect(w, r, thankYou, http.StatusSeeOther)
		return
	}

	lead := content.Lead{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Message:  strings.TrimSpace(r.PostFormValue("message")),
		PagePath: strings.TrimSpace(r.PostFormValue("page")),
	}
	if lead.Name == "" || lead.Email == "" || lead.Message == "" {
		http.Error(w, "name, email, and message are required", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(lead.Email); err != nil {
		http.Error(w, "invalid email address", http.StatusBadRequest)
		return
	}

	stored, err := s.store.CreateLead(r.Context(), lead)
	if err != nil {
		s.log.Error("lead store failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.log.Info("lead received", "lead_id", stored.ID, "page", stored.PagePath)
	http.Redirect(w, r, thankYou, http.StatusSeeOther)
}

// contactLimiter rate-limits contact submissions per client IP.
type contactLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleTTL = 30 * time.Minute
const limiterCleanupInterval = 10 * time.Minute

func newContactLimiter(perSecond float64, burst int) *contactLimiter {
	return &contactLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (cl *contactLimiter) allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	e, ok := cl.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// runJanitor drops limiter entries for IPs not seen recently.
func (cl *contactLimiter) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleTTL)
			cl.mu.Lock()
			for ip, e := range cl.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(cl.limiters, ip)
				}
			}
			cl.mu.Unlock()
		}
	}
}
