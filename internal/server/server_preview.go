package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/craftline/sitecms/internal/content"
	"github.com/craftline/sitecms/internal/seo"
)

var previewUpgrader = websocket.Upgrader{
	// The admin editor is served from the same origin; cross-origin preview
	// sockets are still gated by the Bearer key check below.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// previewRequest is one editor draft: page metadata plus the section list
// as it would be saved.
type previewRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	CanonicalPath string           `json:"canonical_path,omitempty"`
	Slug          string           `json:"slug"`
	Sections      []sectionPayload `json:"sections"`
}

type previewResponse struct {
	HTML  string `json:"html"`
	Title string `json:"title"`
	Error string `json:"error,omitempty"`
}

// handlePreviewWS holds a live-preview channel open for the admin editor:
// each draft sent over the socket is answered with the rendered section
// HTML and resolved title, without touching the store.
func (s *Server) handlePreviewWS(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	conn, err := previewUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("preview websocket upgrade failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()
	s.log.Debug("preview session opened", "remote", r.RemoteAddr)

	for {
		var req previewRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		page := content.Page{
			Slug:          req.Slug,
			Title:         req.Title,
			Description:   req.Description,
			CanonicalPath: req.CanonicalPath,
		}
		for i, sec := range req.Sections {
			payload := sec.Payload
			if len(payload) == 0 || !json.Valid(payload) {
				payload = json.RawMessage(`{}`)
			}
			page.Sections = append(page.Sections, content.Section{
				Type:     content.SectionType(sec.Type),
				Position: i,
				Payload:  payload,
			})
		}

		meta := seo.PageMeta(s.site, s.cfg.BaseURL, page)
		resp := previewResponse{
			HTML:  string(s.renderer.Sections(page.Sections)),
			Title: meta.Title,
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
