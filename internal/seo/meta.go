// Package seo emits page head metadata, LocalBusiness structured data, and
// the sitemap. Everything here is a pure function of the page record and the
// site profile; nothing reads the section-rendering path.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/craftline/sitecms/internal/config"
	"github.com/craftline/sitecms/internal/content"
)

// Meta is the resolved head metadata for one page.
type Meta struct {
	Title        string
	Description  string
	CanonicalURL string
	Lang         string
}

// PageMeta derives head metadata from a page record. The canonical URL is
// the page's explicit canonical path when set, otherwise its slug. The site
// name is appended to the title unless the title already carries it.
func PageMeta(site config.Site, baseURL string, p content.Page) Meta {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = site.Name
	} else if !strings.Contains(title, site.Name) {
		title = title + " | " + site.Name
	}

	path := strings.TrimSpace(p.CanonicalPath)
	if path == "" {
		path = "/" + strings.Trim(p.Slug, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/home" {
		path = "/"
	}

	return Meta{
		Title:        title,
		Description:  strings.TrimSpace(p.Description),
		CanonicalURL: strings.TrimSuffix(baseURL, "/") + path,
		Lang:         site.DefaultLang,
	}
}

// HeadTags renders the meta, canonical, and Open Graph tags for m.
func HeadTags(m Meta) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, "<title>%s</title>\n", template.HTMLEscapeString(m.Title))
	if m.Description != "" {
		fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", template.HTMLEscapeString(m.Description))
	}
	fmt.Fprintf(&b, "<link rel=\"canonical\" href=\"%s\">\n", template.HTMLEscapeString(m.CanonicalURL))
	fmt.Fprintf(&b, "<meta property=\"og:title\" content=\"%s\">\n", template.HTMLEscapeString(m.Title))
	if m.Description != "" {
		fmt.Fprintf(&b, "<meta property=\"og:description\" content=\"%s\">\n", template.HTMLEscapeString(m.Description))
	}
	fmt.Fprintf(&b, "<meta property=\"og:url\" content=\"%s\">\n", template.HTMLEscapeString(m.CanonicalURL))
	b.WriteString("<meta property=\"og:type\" content=\"website\">\n")
	return template.HTML(b.String())
}

// LocalBusinessJSONLD renders the schema.org LocalBusiness script block from
// the site profile. Empty fields are omitted.
func LocalBusinessJSONLD(site config.Site, baseURL string) (template.HTML, error) {
	type postalAddress struct {
		Type       string `json:"@type"`
		Street     string `json:"streetAddress,omitempty"`
		Locality   string `json:"addressLocality,omitempty"`
		Region     string `json:"addressRegion,omitempty"`
		PostalCode string `json:"postalCode,omitempty"`
	}
	doc := struct {
		Context   string         `json:"@context"`
		Type      string         `json:"@type"`
		Name      string         `json:"name"`
		URL       string         `json:"url"`
		Telephone string         `json:"telephone,omitempty"`
		Email     string         `json:"email,omitempty"`
		Hours     string         `json:"openingHours,omitempty"`
		Address   *postalAddress `json:"address,omitempty"`
	}{
		Context:   "https://schema.org",
		Type:      "LocalBusiness",
		Name:      site.Name,
		URL:       baseURL,
		Telephone: site.Phone,
		Email:     site.Email,
		Hours:     site.Hours,
	}
	if site.Address != "" || site.Locality != "" {
		doc.Address = &postalAddress{
			Type:       "PostalAddress",
			Street:     site.Address,
			Locality:   site.Locality,
			Region:     site.Region,
			PostalCode: site.PostalCode,
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return template.HTML(`<script type="application/ld+json">` + string(b) + `</script>`), nil
}
