// Package content defines the core data types shared across the sitecms
// server, store, renderer, and SEO layers.
package content

import (
	"encoding/json"
	"time"
)

// Page publication status constants.
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Page is a CMS-managed page: SEO metadata plus an ordered list of typed
// content sections. Pages are read-only at render time; all mutation goes
// through the admin API.
type Page struct {
	ID            string
	Slug          string
	Title         string
	Description   string
	CanonicalPath string
	Status        string
	Sections      []Section
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Published reports whether the page is visible to anonymous visitors.
func (p *Page) Published() bool {
	return p.Status == PageStatusPublished
}

// Section is a typed, ordered content block belonging to a page. The payload
// shape depends on Type; the renderer decodes it per type tag and skips
// sections it cannot decode.
type Section struct {
	Type     SectionType
	Position int
	Payload  json.RawMessage
}

// RedirectRule maps one request path to a destination path or absolute URL.
// At most one active rule should exist per source path; the resolver takes
// the first match it finds.
type RedirectRule struct {
	ID          string
	SourcePath  string
	Destination string
	StatusCode  int // 301 or 302; 0 means 301
	Active      bool
	CreatedAt   time.Time
}

// Code returns the HTTP status code to use for the rule, defaulting to 301.
func (r RedirectRule) Code() int {
	if r.StatusCode == 302 {
		return 302
	}
	return 301
}

// Lead is a contact-form submission.
type Lead struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	PagePath  string
	CreatedAt time.Time
}

// Asset is an uploaded media file served under /media/.
type Asset struct {
	ID          string
	FileName    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

// APIKey is an admin API credential. Only the hash is persisted.
type APIKey struct {
	ID        string
	Name      string
	KeyHash   string
	CreatedAt time.Time
	RevokedAt *time.Time
}
