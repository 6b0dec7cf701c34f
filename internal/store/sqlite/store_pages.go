package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/craftline/sitecms/internal/content"
)

// UpsertPage creates or replaces the page with the given slug, including its
// full section list. Sections are replaced wholesale; partial section edits
// are an admin-UI concern, not a storage one.
func (s *Store) UpsertPage(ctx context.Context, p content.Page) (content.Page, error) {
	p.Slug = normalizeSlug(p.Slug)
	if p.Slug == "" {
		return content.Page{}, errors.New("page slug is required")
	}
	if p.Status == "" {
		p.Status = content.PageStatusDraft
	}
	if p.Status != content.PageStatusDraft && p.Status != content.PageStatusPublished {
		return content.Page{}, fmt.Errorf("invalid page status %q", p.Status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return content.Page{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := nowUTC()
	var existingID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM pages WHERE slug = ?`, p.Slug).Scan(&existingID)
	switch {
	case err == nil:
		if p.ID != "" && p.ID != existingID {
			return content.Page{}, content.ErrSlugTaken
		}
		p.ID = existingID
		p.UpdatedAt = now
		if _, err = tx.ExecContext(ctx, `
UPDATE pages
SET title = ?, description = ?, canonical_path = ?, status = ?, updated_at = ?
WHERE id = ?`, p.Title, p.Description, p.CanonicalPath, p.Status, p.UpdatedAt, p.ID); err != nil {
			return content.Page{}, err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM sections WHERE page_id = ?`, p.ID); err != nil {
			return content.Page{}, err
		}
	case errors.Is(err, sql.ErrNoRows):
		if p.ID == "" {
			p.ID = newID("pg")
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		if _, err = tx.ExecContext(ctx, `
INSERT INTO pages(id, slug, title, description, canonical_path, status, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Slug, p.Title, p.Description, p.CanonicalPath, p.Status, p.CreatedAt, p.UpdatedAt); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				return content.Page{}, content.ErrSlugTaken
			}
			return content.Page{}, err
		}
	default:
		return content.Page{}, err
	}

	for i, sec := range p.Sections {
		payload := sec.Payload
		if len(payload) == 0 {
			payload = json.RawMessage(`{}`)
		}
		if !json.Valid(payload) {
			return content.Page{}, fmt.Errorf("section %d: payload is not valid JSON", i)
		}
		// Positions are rewritten densely in list order; the stored order is
		// the render order.
		p.Sections[i].Position = i
		if _, err = tx.ExecContext(ctx, `
INSERT INTO sections(page_id, position, type, payload)
VALUES(?, ?, ?, ?)`, p.ID, i, string(sec.Type), string(payload)); err != nil {
			return content.Page{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return content.Page{}, err
	}
	return p, nil
}

// GetPageBySlug returns the page and its sections ordered by position.
// Returns [content.ErrPageNotFound] when no page has the slug.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (content.Page, error) {
	slug = normalizeSlug(slug)
	var p content.Page
	err := s.db.QueryRowContext(ctx, `
SELECT id, slug, title, description, canonical_path, status, created_at, updated_at
FROM pages
WHERE slug = ?`, slug).Scan(
		&p.ID, &p.Slug, &p.Title, &p.Description, &p.CanonicalPath, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Page{}, content.ErrPageNotFound
	}
	if err != nil {
		return content.Page{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT position, type, payload
FROM sections
WHERE page_id = ?
ORDER BY position ASC`, p.ID)
	if err != nil {
		return content.Page{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sec content.Section
		var typ, payload string
		if err := rows.Scan(&sec.Position, &typ, &payload); err != nil {
			return content.Page{}, err
		}
		sec.Type = content.SectionType(typ)
		sec.Payload = json.RawMessage(payload)
		p.Sections = append(p.Sections, sec)
	}
	return p, rows.Err()
}

// ListPages returns all pages without their sections, newest first.
func (s *Store) ListPages(ctx context.Context) ([]content.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, slug, title, description, canonical_path, status, created_at, updated_at
FROM pages
ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []content.Page
	for rows.Next() {
		var p content.Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.CanonicalPath, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPublishedPages returns published pages without sections, for sitemap
// generation, ordered by slug for stable output.
func (s *Store) ListPublishedPages(ctx context.Context) ([]content.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, slug, title, description, canonical_path, status, created_at, updated_at
FROM pages
WHERE status = ?
ORDER BY slug ASC`, content.PageStatusPublished)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []content.Page
	for rows.Next() {
		var p content.Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.CanonicalPath, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePage removes the page with the given slug and its sections.
func (s *Store) DeletePage(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE slug = ?`, normalizeSlug(slug))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return content.ErrPageNotFound
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(slug)), "/")
}
