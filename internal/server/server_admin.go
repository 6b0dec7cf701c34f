package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/craftline/sitecms/internal/content"
)

const maxJSONBodyBytes = 1 << 20

type redirectPayload struct {
	SourcePath  string `json:"source_path"`
	Destination string `json:"destination"`
	StatusCode  int    `json:"status_code,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

type redirectResponse struct {
	ID          string    `json:"id"`
	SourcePath  string    `json:"source_path"`
	Destination string    `json:"destination"`
	StatusCode  int       `json:"status_code"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type sectionPayload struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type pagePayload struct {
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	CanonicalPath string           `json:"canonical_path,omitempty"`
	Status        string           `json:"status,omitempty"`
	Sections      []sectionPayload `json:"sections"`
}

type pageResponse struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	CanonicalPath string           `json:"canonical_path,omitempty"`
	Status        string           `json:"status"`
	Sections      []sectionPayload `json:"sections,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type leadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	PagePath  string    `json:"page_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleRedirects(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		rules, err := s.store.ListRedirects(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]redirectResponse, 0, len(rules))
		for _, rule := range rules {
			out = append(out, toRedirectResponse(rule))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var body redirectPayload
		if err := decodeJSONBody(r, &body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rule := content.RedirectRule{
			SourcePath:  body.SourcePath,
			Destination: body.Destination,
			StatusCode:  body.StatusCode,
			Active:      body.Active == nil || *body.Active,
		}
		created, err := s.store.CreateRedirect(r.Context(), rule)
		if errors.Is(err, content.ErrRedirectSourceTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Info("redirect created", "id", created.ID, "source", created.SourcePath)
		writeJSON(w, http.StatusCreated, toRedirectResponse(created))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRedirectByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/redirects/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodDelete:
		err := s.store.DeleteRedirect(r.Context(), id)
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.log.Info("redirect deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPatch:
		var body struct {
			Active *bool `json:"active"`
		}
		if err := decodeJSONBody(r, &body); err != nil || body.Active == nil {
			http.Error(w, "body must carry an active flag", http.StatusBadRequest)
			return
		}
		err := s.store.SetRedirectActive(r.Context(), id, *body.Active)
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		pages, err := s.store.ListPages(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]pageResponse, 0, len(pages))
		for _, p := range pages {
			out = append(out, toPageResponse(p, false))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPut:
		var body pagePayload
		if err := decodeJSONBody(r, &body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		page := content.Page{
			Slug:          body.Slug,
			Title:         body.Title,
			Description:   body.Description,
			CanonicalPath: body.CanonicalPath,
			Status:        body.Status,
		}
		for i, sec := range body.Sections {
			page.Sections = append(page.Sections, content.Section{
				Type:     content.SectionType(sec.Type),
				Position: i,
				Payload:  sec.Payload,
			})
		}
		saved, err := s.store.UpsertPage(r.Context(), page)
		if errors.Is(err, content.ErrSlugTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Info("page saved", "slug", saved.Slug, "sections", len(saved.Sections), "status", saved.Status)
		writeJSON(w, http.StatusOK, toPageResponse(saved, true))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePageBySlug(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/pages/"), "/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		page, err := s.store.GetPageBySlug(r.Context(), slug)
		if errors.Is(err, content.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPageResponse(page, true))
	case http.MethodDelete:
		err := s.store.DeletePage(r.Context(), slug)
		if errors.Is(err, content.ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s.log.Info("page deleted", "slug", slug)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	leads, err := s.store.ListLeads(r.Context(), 0)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]leadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, leadResponse{
			ID:        l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Phone:     l.Phone,
			Message:   l.Message,
			PagePath:  l.PagePath,
			CreatedAt: l.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid json body")
	}
	return nil
}

func toRedirectResponse(r content.RedirectRule) redirectResponse {
	return redirectResponse{
		ID:          r.ID,
		SourcePath:  r.SourcePath,
		Destination: r.Destination,
		StatusCode:  r.Code(),
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}

func toPageResponse(p content.Page, withSections bool) pageResponse {
	out := pageResponse{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Description:   p.Description,
		CanonicalPath: p.CanonicalPath,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if withSections {
		for _, sec := range p.Sections {
			out.Sections = append(out.Sections, sectionPayload{
				Type:    string(sec.Type),
				Payload: sec.Payload,
			})
		}
	}
	return out
}
