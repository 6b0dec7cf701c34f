package sqlite

import (
	"context"
	"errors"
	"strings"

	"github.com/craftline/sitecms/internal/content"
)

// CreateLead persists a contact-form submission.
func (s *Store) CreateLead(ctx context.Context, l content.Lead) (content.Lead, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Message = strings.TrimSpace(l.Message)
	if l.Name == "" || l.Email == "" || l.Message == "" {
		return content.Lead{}, errors.New("lead requires name, email, and message")
	}

	l.ID = newID("ld")
	l.CreatedAt = nowUTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO leads(id, name, email, phone, message, page_path, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Email, strings.TrimSpace(l.Phone), l.Message, l.PagePath, l.CreatedAt)
	return l, err
}

// ListLeads returns submissions newest first, capped at limit (default 100).
func (s *Store) ListLeads(ctx context.Context, limit int) ([]content.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, email, phone, message, page_path, created_at
FROM leads
ORDER BY created_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []content.Lead
	for rows.Next() {
		var l content.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.PagePath, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
