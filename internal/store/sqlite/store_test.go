package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/craftline/sitecms/internal/content"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUpsertPageCreateAndUpdate(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	created, err := store.UpsertPage(ctx, content.Page{
		Slug:   "Kitchens/",
		Title:  "Custom Kitchens",
		Status: content.PageStatusPublished,
		Sections: []content.Section{
			{Type: content.SectionHero, Position: 99, Payload: json.RawMessage(`{"heading":"Kitchens"}`)},
			{Type: content.SectionRichText, Position: 0, Payload: json.RawMessage(`{"html":"<p>hi</p>"}`)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Slug != "kitchens" {
		t.Fatalf("unexpected created page: %+v", created)
	}

	got, err := store.GetPageBySlug(ctx, "kitchens")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got.Sections))
	}
	// Positions are rewritten densely in list order.
	if got.Sections[0].Type != content.SectionHero || got.Sections[0].Position != 0 {
		t.Fatalf("first section should be the hero at position 0: %+v", got.Sections[0])
	}

	updated, err := store.UpsertPage(ctx, content.Page{
		Slug:   "kitchens",
		Title:  "Kitchens, Remade",
		Status: content.PageStatusDraft,
		Sections: []content.Section{
			{Type: content.SectionCallToAction, Payload: json.RawMessage(`{"heading":"Go","label":"Quote","href":"/contact"}`)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != created.ID {
		t.Fatalf("upsert on existing slug must keep the id: %s vs %s", updated.ID, created.ID)
	}

	got, err = store.GetPageBySlug(ctx, "kitchens")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Kitchens, Remade" || got.Published() {
		t.Fatalf("update not applied: %+v", got)
	}
	if len(got.Sections) != 1 || got.Sections[0].Type != content.SectionCallToAction {
		t.Fatalf("sections must be replaced wholesale: %+v", got.Sections)
	}
}

func TestUpsertPageSlugConflict(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first, err := store.UpsertPage(ctx, content.Page{Slug: "about", Title: "About"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.UpsertPage(ctx, content.Page{ID: "pg_other", Slug: "about", Title: "Impostor"})
	if !errors.Is(err, content.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken for a different id on a taken slug, got %v", err)
	}

	// Same id is a legal update, not a conflict.
	if _, err := store.UpsertPage(ctx, content.Page{ID: first.ID, Slug: "about", Title: "About Us"}); err != nil {
		t.Fatal(err)
	}
}

func TestUpsertPageRejectsInvalidInput(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.UpsertPage(ctx, content.Page{Slug: "  /  ", Title: "x"}); err == nil {
		t.Fatal("blank slug must be rejected")
	}
	if _, err := store.UpsertPage(ctx, content.Page{Slug: "p", Status: "archived"}); err == nil {
		t.Fatal("unknown status must be rejected")
	}
	_, err := store.UpsertPage(ctx, content.Page{Slug: "p", Sections: []content.Section{
		{Type: content.SectionHero, Payload: json.RawMessage(`{"broken`)},
	}})
	if err == nil {
		t.Fatal("invalid section JSON must be rejected")
	}
}

func TestGetPageBySlugNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetPageBySlug(context.Background(), "nope")
	if !errors.Is(err, content.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestDeletePageCascadesSections(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.UpsertPage(ctx, content.Page{Slug: "gone", Title: "Gone", Sections: []content.Section{
		{Type: content.SectionRichText, Payload: json.RawMessage(`{"html":"x"}`)},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeletePage(ctx, "gone"); err != nil {
		t.Fatal(err)
	}
	if err := store.DeletePage(ctx, "gone"); !errors.Is(err, content.ErrPageNotFound) {
		t.Fatalf("double delete must report not found, got %v", err)
	}

	var count int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("sections must cascade on page delete, %d left", count)
	}
}

func TestListPublishedPages(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, p := range []content.Page{
		{Slug: "zebra", Title: "Z", Status: content.PageStatusPublished},
		{Slug: "alpha", Title: "A", Status: content.PageStatusPublished},
		{Slug: "hidden", Title: "H", Status: content.PageStatusDraft},
	} {
		if _, err := store.UpsertPage(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	pages, err := store.ListPublishedPages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0].Slug != "alpha" || pages[1].Slug != "zebra" {
		t.Fatalf("expected published pages ordered by slug, got %+v", pages)
	}
}

func TestCreateRedirectAndActiveConflict(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rule, err := store.CreateRedirect(ctx, content.RedirectRule{
		SourcePath:  "Old-Kitchens/",
		Destination: "/kitchens",
		Active:      true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rule.SourcePath != "/old-kitchens" || rule.Code() != 301 {
		t.Fatalf("unexpected rule: %+v", rule)
	}

	_, err = store.CreateRedirect(ctx, content.RedirectRule{
		SourcePath:  "/old-kitchens",
		Destination: "/somewhere-else",
		Active:      true,
	})
	if !errors.Is(err, content.ErrRedirectSourceTaken) {
		t.Fatalf("expected ErrRedirectSourceTaken, got %v", err)
	}

	// An inactive duplicate is allowed; it only conflicts once activated.
	if _, err := store.CreateRedirect(ctx, content.RedirectRule{
		SourcePath:  "/old-kitchens",
		Destination: "/somewhere-else",
	}); err != nil {
		t.Fatal(err)
	}
}

func TestCreateRedirectValidation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.CreateRedirect(ctx, content.RedirectRule{Destination: "/x"}); err == nil {
		t.Fatal("missing source must be rejected")
	}
	if _, err := store.CreateRedirect(ctx, content.RedirectRule{SourcePath: "/a"}); err == nil {
		t.Fatal("missing destination must be rejected")
	}
	if _, err := store.CreateRedirect(ctx, content.RedirectRule{SourcePath: "/a", Destination: "/b", StatusCode: 307}); err == nil {
		t.Fatal("status codes other than 301/302 must be rejected")
	}
}

func TestListActiveRedirectsAndToggle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rule, err := store.CreateRedirect(ctx, content.RedirectRule{
		SourcePath: "/a", Destination: "/b", Active: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateRedirect(ctx, content.RedirectRule{
		SourcePath: "/c", Destination: "/d",
	}); err != nil {
		t.Fatal(err)
	}

	active, err := store.ListActiveRedirects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].SourcePath != "/a" {
		t.Fatalf("expected only the active rule, got %+v", active)
	}

	if err := store.SetRedirectActive(ctx, rule.ID, false); err != nil {
		t.Fatal(err)
	}
	active, err = store.ListActiveRedirects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Fatalf("deactivated rule must disappear from the active list, got %+v", active)
	}

	all, err := store.ListRedirects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("admin listing must include inactive rules, got %d", len(all))
	}

	if err := store.DeleteRedirect(ctx, rule.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteRedirect(ctx, rule.ID); err == nil {
		t.Fatal("deleting a missing rule must error")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/Old-Kitchens/": "/old-kitchens",
		"old-kitchens":   "/old-kitchens",
		"/":              "/",
		"  /A/B/  ":      "/a/b",
		"":               "",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Fatalf("NormalizePath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestLeads(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.CreateLead(ctx, content.Lead{Name: "Ann", Email: "ann@example.com"}); err == nil {
		t.Fatal("missing message must be rejected")
	}

	lead, err := store.CreateLead(ctx, content.Lead{
		Name: "Ann", Email: "ann@example.com", Message: "Quote please", PagePath: "/kitchens",
	})
	if err != nil {
		t.Fatal(err)
	}
	if lead.ID == "" {
		t.Fatal("expected a generated lead id")
	}

	leads, err := store.ListLeads(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(leads) != 1 || leads[0].PagePath != "/kitchens" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	key, err := store.CreateAPIKey(ctx, "admin", "hash-one")
	if err != nil {
		t.Fatal(err)
	}

	id, err := store.ResolveAPIKeyID(ctx, "hash-one")
	if err != nil {
		t.Fatal(err)
	}
	if id != key.ID {
		t.Fatalf("resolved id %q, want %q", id, key.ID)
	}

	if err := store.RevokeAPIKey(ctx, key.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ResolveAPIKeyID(ctx, "hash-one"); err == nil {
		t.Fatal("revoked key must not resolve")
	}

	keys, err := store.ListAPIKeys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0].RevokedAt == nil {
		t.Fatalf("listing must show the revocation: %+v", keys)
	}
}

func TestResolveServerPepper(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	pepper, err := store.ResolveServerPepper(ctx, "seed-pepper")
	if err != nil {
		t.Fatal(err)
	}
	if pepper != "seed-pepper" {
		t.Fatalf("first call must persist the suggestion, got %q", pepper)
	}

	if _, err := store.ResolveServerPepper(ctx, "different"); err == nil {
		t.Fatal("mismatched pepper must be rejected")
	}

	pepper, err = store.ResolveServerPepper(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if pepper != "seed-pepper" {
		t.Fatalf("empty suggestion must return the stored pepper, got %q", pepper)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "site.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}
}
