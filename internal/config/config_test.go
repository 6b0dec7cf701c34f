package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseServeFlagsDefaults(t *testing.T) {
	cfg, err := ParseServeFlags([]string{"--base-url", "http://localhost:8080"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":8080" || cfg.DBPath != "./sitecms.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TLSMode != "off" || !cfg.WAFEnabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ThankYouSlug != "thank-you" {
		t.Fatalf("thank-you slug: got %q", cfg.ThankYouSlug)
	}
}

func TestParseServeFlagsRequiresBaseURL(t *testing.T) {
	if _, err := ParseServeFlags(nil); err == nil {
		t.Fatal("missing base url must fail")
	}
	if _, err := ParseServeFlags([]string{"--base-url", "not a url"}); err == nil {
		t.Fatal("base url without scheme must fail")
	}
}

func TestParseServeFlagsTLSAutoNeedsHTTPS(t *testing.T) {
	if _, err := ParseServeFlags([]string{"--base-url", "http://example.com", "--tls-mode", "auto"}); err == nil {
		t.Fatal("tls auto with http base url must fail")
	}
	cfg, err := ParseServeFlags([]string{"--base-url", "https://example.com/", "--tls-mode", "auto"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://example.com" {
		t.Fatalf("trailing slash must be stripped: %q", cfg.BaseURL)
	}
}

func TestParseServeFlagsEnvFallback(t *testing.T) {
	t.Setenv("SITECMS_BASE_URL", "https://env.example.com")
	t.Setenv("SITECMS_LISTEN", ":9999")
	t.Setenv("SITECMS_WAF", "off")

	cfg, err := ParseServeFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://env.example.com" || cfg.Listen != ":9999" {
		t.Fatalf("env fallback not applied: %+v", cfg)
	}
	if cfg.WAFEnabled {
		t.Fatal("SITECMS_WAF=off must disable the waf")
	}

	// Flags beat environment.
	cfg, err = ParseServeFlags([]string{"--listen", ":7000"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":7000" {
		t.Fatalf("flag must override env: %q", cfg.Listen)
	}
}

func TestLoadSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	err := os.WriteFile(path, []byte(`
name: Hartwood Cabinetry
tagline: Built to last
phone: "+1 555 010 0199"
locality: Springfield
nav:
  - label: Kitchens
    href: /kitchens
  - label: Contact
    href: /contact
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	site, err := LoadSite(path)
	if err != nil {
		t.Fatal(err)
	}
	if site.Name != "Hartwood Cabinetry" || site.Locality != "Springfield" {
		t.Fatalf("unexpected site: %+v", site)
	}
	if site.DefaultLang != "en" {
		t.Fatalf("default lang must fall back to en, got %q", site.DefaultLang)
	}
	if len(site.Nav) != 2 || site.Nav[1].Href != "/contact" {
		t.Fatalf("unexpected nav: %+v", site.Nav)
	}
}

func TestLoadSiteRejectsMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("tagline: nameless\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSite(path); err == nil {
		t.Fatal("missing name must be rejected")
	}
	if _, err := LoadSite(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file must be rejected")
	}
}
