package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/craftline/sitecms/internal/config"
	"github.com/craftline/sitecms/internal/content"
)

var testSite = config.Site{
	Name:        "Hartwood Cabinetry",
	Phone:       "+1 555 010 0199",
	Email:       "hello@hartwood.example",
	Address:     "12 Mill Road",
	Locality:    "Springfield",
	Region:      "OR",
	PostalCode:  "97477",
	Hours:       "Mo-Fr 08:00-17:00",
	DefaultLang: "en",
}

const testBaseURL = "https://hartwood.example"

func TestPageMetaTitleAndCanonical(t *testing.T) {
	t.Parallel()

	m := PageMeta(testSite, testBaseURL, content.Page{
		Slug:        "kitchens",
		Title:       "Custom Kitchens",
		Description: "Handmade kitchens.",
	})
	if m.Title != "Custom Kitchens | Hartwood Cabinetry" {
		t.Fatalf("title: got %q", m.Title)
	}
	if m.CanonicalURL != "https://hartwood.example/kitchens" {
		t.Fatalf("canonical: got %q", m.CanonicalURL)
	}
	if m.Lang != "en" {
		t.Fatalf("lang: got %q", m.Lang)
	}
}

func TestPageMetaDoesNotDuplicateSiteName(t *testing.T) {
	t.Parallel()

	m := PageMeta(testSite, testBaseURL, content.Page{Slug: "home", Title: "Hartwood Cabinetry"})
	if m.Title != "Hartwood Cabinetry" {
		t.Fatalf("title: got %q", m.Title)
	}
	if m.CanonicalURL != "https://hartwood.example/" {
		t.Fatalf("home canonical must be the root: got %q", m.CanonicalURL)
	}
}

func TestPageMetaHonorsExplicitCanonicalPath(t *testing.T) {
	t.Parallel()

	m := PageMeta(testSite, testBaseURL+"/", content.Page{
		Slug:          "kitchens-2024",
		Title:         "Kitchens",
		CanonicalPath: "/kitchens",
	})
	if m.CanonicalURL != "https://hartwood.example/kitchens" {
		t.Fatalf("canonical: got %q", m.CanonicalURL)
	}
}

func TestHeadTags(t *testing.T) {
	t.Parallel()

	m := Meta{
		Title:        `Kitchens & "More"`,
		Description:  "Handmade.",
		CanonicalURL: "https://hartwood.example/kitchens",
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(HeadTags(m))))
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("title").Text(); got != `Kitchens & "More"` {
		t.Fatalf("title tag: got %q", got)
	}
	if got, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); got != m.CanonicalURL {
		t.Fatalf("canonical link: got %q", got)
	}
	if got, _ := doc.Find(`meta[property="og:title"]`).Attr("content"); got != m.Title {
		t.Fatalf("og:title: got %q", got)
	}
	if got, _ := doc.Find(`meta[name="description"]`).Attr("content"); got != "Handmade." {
		t.Fatalf("description: got %q", got)
	}
}

func TestLocalBusinessJSONLD(t *testing.T) {
	t.Parallel()

	block, err := LocalBusinessJSONLD(testSite, testBaseURL)
	if err != nil {
		t.Fatal(err)
	}
	raw := string(block)
	raw = strings.TrimPrefix(raw, `<script type="application/ld+json">`)
	raw = strings.TrimSuffix(raw, `</script>`)

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("block is not valid JSON: %v", err)
	}
	if doc["@type"] != "LocalBusiness" || doc["name"] != "Hartwood Cabinetry" {
		t.Fatalf("unexpected doc: %v", doc)
	}
	addr, ok := doc["address"].(map[string]any)
	if !ok || addr["addressLocality"] != "Springfield" {
		t.Fatalf("unexpected address: %v", doc["address"])
	}
}

func TestSitemap(t *testing.T) {
	t.Parallel()

	updated := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	pages := []content.Page{
		{Slug: "home", Status: content.PageStatusPublished, UpdatedAt: updated},
		{Slug: "kitchens", Status: content.PageStatusPublished, UpdatedAt: updated},
		{Slug: "draft-page", Status: content.PageStatusDraft},
		{Slug: "kitchens-2024", Status: content.PageStatusPublished, CanonicalPath: "/kitchens"},
	}

	out, err := Sitemap(testBaseURL, pages)
	if err != nil {
		t.Fatal(err)
	}
	xml := string(out)

	if !strings.Contains(xml, "<loc>https://hartwood.example/</loc>") {
		t.Fatalf("home must map to the root URL:\n%s", xml)
	}
	if !strings.Contains(xml, "<loc>https://hartwood.example/kitchens</loc>") {
		t.Fatalf("missing published page:\n%s", xml)
	}
	if strings.Contains(xml, "draft-page") {
		t.Fatalf("draft pages must not appear:\n%s", xml)
	}
	if strings.Contains(xml, "kitchens-2024") {
		t.Fatalf("pages canonicalized elsewhere must not appear:\n%s", xml)
	}
	if !strings.Contains(xml, "<lastmod>2026-03-14</lastmod>") {
		t.Fatalf("missing lastmod:\n%s", xml)
	}
}

func TestRobotsTxt(t *testing.T) {
	t.Parallel()

	out := string(RobotsTxt(testBaseURL + "/"))
	if !strings.Contains(out, "Disallow: /api/") {
		t.Fatalf("robots must disallow the admin API:\n%s", out)
	}
	if !strings.Contains(out, "Sitemap: https://hartwood.example/sitemap.xml") {
		t.Fatalf("robots must point at the sitemap:\n%s", out)
	}
}
