package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Site is the business profile rendered into the page chrome and the
// LocalBusiness structured data. It lives in a YAML file so copy edits do
// not require a redeploy.
type Site struct {
	Name        string `yaml:"name"`
	Tagline     string `yaml:"tagline"`
	Phone       string `yaml:"phone"`
	Email       string `yaml:"email"`
	Address     string `yaml:"address"`
	Locality    string `yaml:"locality"`
	Region      string `yaml:"region"`
	PostalCode  string `yaml:"postal_code"`
	Hours       string `yaml:"hours"`
	DefaultLang string `yaml:"default_lang"`

	Nav []NavItem `yaml:"nav"`
}

// NavItem is one entry of the site-wide navigation.
type NavItem struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// LoadSite reads and validates the site profile YAML at path.
func LoadSite(path string) (Site, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("read site profile: %w", err)
	}
	var s Site
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Site{}, fmt.Errorf("parse site profile: %w", err)
	}
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Site{}, fmt.Errorf("site profile %s: missing name", path)
	}
	if s.DefaultLang == "" {
		s.DefaultLang = "en"
	}
	return s, nil
}
