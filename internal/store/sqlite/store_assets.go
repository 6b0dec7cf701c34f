package sqlite

import (
	"context"
	"errors"

	"github.com/craftline/sitecms/internal/content"
)

// CreateAsset records an uploaded media file. FileName must already be
// unique within the media directory.
func (s *Store) CreateAsset(ctx context.Context, a content.Asset) (content.Asset, error) {
	if a.FileName == "" {
		return content.Asset{}, errors.New("asset file name is required")
	}
	a.ID = newID("as")
	a.CreatedAt = nowUTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO assets(id, file_name, content_type, size_bytes, created_at)
VALUES(?, ?, ?, ?, ?)`,
		a.ID, a.FileName, a.ContentType, a.SizeBytes, a.CreatedAt)
	return a, err
}

// ListAssets returns all recorded assets, newest first.
func (s *Store) ListAssets(ctx context.Context) ([]content.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, file_name, content_type, size_bytes, created_at
FROM assets
ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []content.Asset
	for rows.Next() {
		var a content.Asset
		if err := rows.Scan(&a.ID, &a.FileName, &a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
