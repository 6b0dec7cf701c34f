package server

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/craftline/sitecms/internal/config"
	"github.com/craftline/sitecms/internal/content"
	"github.com/craftline/sitecms/internal/seo"
)

// homeSlug is the page served at the root path.
const homeSlug = "home"

var layoutTemplate = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{.Head}}
{{.JSONLD}}
</head>
<body>
<header class="site-header">
  <a class="site-name" href="/">{{.Site.Name}}</a>
  <nav>
  {{- range .Site.Nav}}
    <a href="{{.Href}}">{{.Label}}</a>
  {{- end}}
  </nav>
</header>
<main>
{{.Body}}
</main>
<footer class="site-footer">
  <p>{{.Site.Name}}{{if .Site.Tagline}} &mdash; {{.Site.Tagline}}{{end}}</p>
  {{- if .Site.Phone}}
  <p><a href="tel:{{.Site.Phone}}">{{.Site.Phone}}</a></p>
  {{- end}}
  {{- if .Site.Address}}
  <p>{{.Site.Address}}{{if .Site.Locality}}, {{.Site.Locality}}{{end}}{{if .Site.Region}}, {{.Site.Region}}{{end}}</p>
  {{- end}}
</footer>
</body>
</html>
`))

type layoutData struct {
	Lang   string
	Head   template.HTML
	JSONLD template.HTML
	Site   config.Site
	Body   template.HTML
}

// handlePage serves any path not claimed by another route as a CMS page
// lookup by slug. Unpublished and absent pages both answer 404.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	slug := strings.Trim(r.URL.Path, "/")
	if slug == "" {
		slug = homeSlug
	}

	page, err := s.store.GetPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrPageNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.log.Error("page lookup failed", "slug", slug, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !page.Published() {
		s.renderNotFound(w, r)
		return
	}

	s.writePage(w, http.StatusOK, page)
}

func (s *Server) writePage(w http.ResponseWriter, status int, page content.Page) {
	meta := seo.PageMeta(s.site, s.cfg.BaseURL, page)
	jsonld, err := seo.LocalBusinessJSONLD(s.site, s.cfg.BaseURL)
	if err != nil {
		s.log.Error("structured data emit failed", "err", err)
		jsonld = ""
	}

	data := layoutData{
		Lang:   meta.Lang,
		Head:   seo.HeadTags(meta),
		JSONLD: jsonld,
		Site:   s.site,
		Body:   s.renderer.Sections(page.Sections),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layoutTemplate.Execute(w, data); err != nil {
		s.log.Error("layout render failed", "slug", page.Slug, "err", err)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	// A CMS-managed 404 page is served when editors created one.
	page, err := s.store.GetPageBySlug(r.Context(), "404")
	if err == nil && page.Published() {
		s.writePage(w, http.StatusNotFound, page)
		return
	}
	http.Error(w, "page not found", http.StatusNotFound)
}
