package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/craftline/sitecms/internal/content"
)

// CreateRedirect persists a new redirect rule. Creating an active rule whose
// source path already has an active rule returns
// [content.ErrRedirectSourceTaken]; overlapping sources are a configuration
// error the resolver does not arbitrate.
func (s *Store) CreateRedirect(ctx context.Context, r content.RedirectRule) (content.RedirectRule, error) {
	r.SourcePath = NormalizePath(r.SourcePath)
	r.Destination = strings.TrimSpace(r.Destination)
	if r.SourcePath == "" {
		return content.RedirectRule{}, errors.New("redirect source path is required")
	}
	if r.Destination == "" {
		return content.RedirectRule{}, errors.New("redirect destination is required")
	}
	if r.StatusCode == 0 {
		r.StatusCode = 301
	}
	if r.StatusCode != 301 && r.StatusCode != 302 {
		return content.RedirectRule{}, errors.New("redirect status code must be 301 or 302")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return content.RedirectRule{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if r.Active {
		var one int
		err = tx.QueryRowContext(ctx, `
SELECT 1 FROM redirect_rules WHERE source_path = ? AND active = 1 LIMIT 1`, r.SourcePath).Scan(&one)
		if err == nil {
			return content.RedirectRule{}, content.ErrRedirectSourceTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return content.RedirectRule{}, err
		}
	}

	r.ID = newID("rd")
	r.CreatedAt = nowUTC()
	if _, err = tx.ExecContext(ctx, `
INSERT INTO redirect_rules(id, source_path, destination, status_code, active, created_at)
VALUES(?, ?, ?, ?, ?, ?)`,
		r.ID, r.SourcePath, r.Destination, r.StatusCode, boolToInt(r.Active), r.CreatedAt); err != nil {
		return content.RedirectRule{}, err
	}
	if err = tx.Commit(); err != nil {
		return content.RedirectRule{}, err
	}
	return r, nil
}

// ListActiveRedirects returns every active rule. This is the resolver's
// refresh query.
func (s *Store) ListActiveRedirects(ctx context.Context) ([]content.RedirectRule, error) {
	return s.listRedirects(ctx, `
SELECT id, source_path, destination, status_code, active, created_at
FROM redirect_rules
WHERE active = 1
ORDER BY created_at ASC`)
}

// ListRedirects returns every rule, active or not, for the admin API.
func (s *Store) ListRedirects(ctx context.Context) ([]content.RedirectRule, error) {
	return s.listRedirects(ctx, `
SELECT id, source_path, destination, status_code, active, created_at
FROM redirect_rules
ORDER BY created_at ASC`)
}

func (s *Store) listRedirects(ctx context.Context, query string) ([]content.RedirectRule, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []content.RedirectRule
	for rows.Next() {
		var r content.RedirectRule
		var active int
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.Destination, &r.StatusCode, &active, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Active = active != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetRedirectActive flips the active flag on a rule.
func (s *Store) SetRedirectActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE redirect_rules SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteRedirect removes a rule by id.
func (s *Store) DeleteRedirect(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM redirect_rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// NormalizePath lower-cases a request path, ensures a leading slash, and
// strips any trailing slash (except for the root path).
func NormalizePath(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
