package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartUpload(t *testing.T, field, filename string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestAssetUploadAndServe(t *testing.T) {
	env := newTestEnv(t, nil)

	body, contentType := multipartUpload(t, "file", "kitchen.jpg", []byte("fake-jpeg-bytes"))
	r := env.authed(httptest.NewRequest(http.MethodPost, "/api/assets", body))
	r.Header.Set("Content-Type", contentType)

	rec := env.do(r)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(created.URL, "/media/") || !strings.HasSuffix(created.URL, ".jpg") {
		t.Fatalf("unexpected url: %q", created.URL)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, created.URL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("serve: expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "fake-jpeg-bytes" {
		t.Fatalf("served bytes differ: %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Fatalf("media must be served immutable, got %q", cc)
	}

	rec = env.do(env.authed(httptest.NewRequest(http.MethodGet, "/api/assets", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), created.ID) {
		t.Fatalf("listing missing uploaded asset:\n%s", rec.Body.String())
	}
}

func TestAssetUploadRejectsUnsupportedTypes(t *testing.T) {
	env := newTestEnv(t, nil)

	body, contentType := multipartUpload(t, "file", "shell.php", []byte("<?php"))
	r := env.authed(httptest.NewRequest(http.MethodPost, "/api/assets", body))
	r.Header.Set("Content-Type", contentType)

	rec := env.do(r)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestAssetUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	body, contentType := multipartUpload(t, "file", "kitchen.jpg", []byte("x"))
	r := httptest.NewRequest(http.MethodPost, "/api/assets", body)
	r.Header.Set("Content-Type", contentType)

	if rec := env.do(r); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
