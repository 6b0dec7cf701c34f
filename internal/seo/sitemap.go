package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/craftline/sitecms/internal/content"
)

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders sitemap.xml for the published pages. Pages carrying an
// explicit canonical path pointing elsewhere keep their slug URL out of the
// map to avoid advertising duplicate locations.
func Sitemap(baseURL string, pages []content.Page) ([]byte, error) {
	base := strings.TrimSuffix(baseURL, "/")
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range pages {
		if !p.Published() {
			continue
		}
		path := "/" + strings.Trim(p.Slug, "/")
		if path == "/home" {
			path = "/"
		}
		canonical := strings.TrimSpace(p.CanonicalPath)
		if canonical != "" && canonical != path {
			continue
		}
		entry := urlEntry{Loc: base + path}
		if !p.UpdatedAt.IsZero() {
			entry.LastMod = p.UpdatedAt.UTC().Format(time.DateOnly)
		}
		set.URLs = append(set.URLs, entry)
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// RobotsTxt renders robots.txt: allow everything public, point crawlers at
// the sitemap, and keep them out of the admin API and media uploads.
func RobotsTxt(baseURL string) []byte {
	base := strings.TrimSuffix(baseURL, "/")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Sitemap: " + base + "/sitemap.xml\n")
	return []byte(b.String())
}
