package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func TestPreviewWebSocketRendersDrafts(t *testing.T) {
	env := newTestEnv(t, nil)
	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/preview/ws"
	header := http.Header{"Authorization": {"Bearer " + env.apiKey}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()
	_ = resp.Body.Close()

	err = conn.WriteJSON(previewRequest{
		Slug:  "kitchens-draft",
		Title: "Kitchens",
		Sections: []sectionPayload{
			{Type: "hero", Payload: json.RawMessage(`{"heading":"Draft Heading"}`)},
			{Type: "unknown-type", Payload: json.RawMessage(`{}`)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	var got previewResponse
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got.HTML, "Draft Heading") {
		t.Fatalf("rendered preview missing draft content:\n%s", got.HTML)
	}
	if strings.Contains(got.HTML, "unknown-type") {
		t.Fatalf("unknown sections must be skipped:\n%s", got.HTML)
	}
	if got.Title != "Kitchens | Hartwood Cabinetry" {
		t.Fatalf("title: got %q", got.Title)
	}

	// Drafts are ephemeral; nothing may be persisted.
	if _, err := env.store.GetPageBySlug(context.Background(), "kitchens-draft"); err == nil {
		t.Fatal("preview must not write to the store")
	}
}

func TestPreviewWebSocketRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)
	ts := httptest.NewServer(env.handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/preview/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected the handshake to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
}
