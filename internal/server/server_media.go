package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftline/sitecms/internal/content"
)

// allowedUploadExts limits uploads to web image formats. The external image
// host handles transformation; this server only stores originals.
var allowedUploadExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".avif": {},
	".gif":  {},
	".svg":  {},
}

// mediaHandler serves uploaded files with immutable cache headers; file
// names embed a random ID so a re-upload never reuses a URL.
func (s *Server) mediaHandler() http.Handler {
	fs := http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.MediaDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	})
}

// handleAssets lists recorded uploads (GET) or accepts a new multipart
// upload (POST) and returns its public path.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAuth(w, r); !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		assets, err := s.store.ListAssets(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		type assetResponse struct {
			ID          string    `json:"id"`
			URL         string    `json:"url"`
			ContentType string    `json:"content_type"`
			SizeBytes   int64     `json:"size_bytes"`
			CreatedAt   time.Time `json:"created_at"`
		}
		out := make([]assetResponse, 0, len(assets))
		for _, a := range assets {
			out = append(out, assetResponse{
				ID:          a.ID,
				URL:         "/media/" + a.FileName,
				ContentType: a.ContentType,
				SizeBytes:   a.SizeBytes,
				CreatedAt:   a.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		s.handleAssetUpload(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAssetUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "multipart upload with a file field is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedUploadExts[ext]; !ok {
		http.Error(w, fmt.Sprintf("unsupported file type %q", ext), http.StatusUnsupportedMediaType)
		return
	}

	fileName := uuid.NewString() + ext
	if err := os.MkdirAll(s.cfg.MediaDir, 0o755); err != nil {
		s.log.Error("media dir create failed", "dir", s.cfg.MediaDir, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	dstPath := filepath.Join(s.cfg.MediaDir, fileName)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.log.Error("media file create failed", "path", dstPath, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	size, err := io.Copy(dst, file)
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(dstPath)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.log.Error("media file write failed", "path", dstPath, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	asset, err := s.store.CreateAsset(r.Context(), content.Asset{
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
	})
	if err != nil {
		_ = os.Remove(dstPath)
		s.log.Error("asset record failed", "file", fileName, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.log.Info("asset uploaded", "asset_id", asset.ID, "file", fileName, "bytes", size)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":           asset.ID,
		"url":          "/media/" + fileName,
		"content_type": contentType,
		"size_bytes":   size,
	})
}
