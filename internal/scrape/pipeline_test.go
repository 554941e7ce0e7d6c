// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubRenderer struct {
	page  *RenderedPage
	calls int
}

func (s *stubRenderer) Render(ctx context.Context, url string) (*RenderedPage, error) {
	s.calls++
	return s.page, nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	m.data[key] = val
}

func TestPipelineScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	renderer := &stubRenderer{page: &RenderedPage{
		FinalURL: srv.URL + "/",
		HTML: `<html><head><title>Acme Inc | Home</title>
			<meta name="description" content="Widgets for everyone"></head>
			<body><header><img class="logo" src="/logo.svg"></header>
			<footer>© 2024 Acme Inc. All rights reserved. 123 Main Street, USA</footer>
			</body></html>`,
		Colors: ThemeColors{Background: "rgb(255, 255, 255)"},
	}}

	reply := `{"name":"Acme Inc","summary":"Acme Inc makes widgets","tone":"professional"}`
	svc := NewService(renderer,
		&Ranker{Client: srv.Client(), ProbeTimeout: 2 * time.Second},
		NewNormalizer(fakeRegistry(reply, nil)),
		nil)

	userID := uuid.New()
	kit, err := svc.Scrape(context.Background(), userID, srv.URL, "My Kit")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}

	if kit.UserID != userID {
		t.Errorf("user id = %s", kit.UserID)
	}
	if kit.KitName != "My Kit" {
		t.Errorf("kit name = %q", kit.KitName)
	}
	if kit.Copyright != "© 2024 Acme Inc." {
		t.Errorf("copyright = %q", kit.Copyright)
	}
	if kit.LogoPrimaryURL != srv.URL+"/logo.svg" {
		t.Errorf("logo = %q", kit.LogoPrimaryURL)
	}
	if kit.ColorBackground != "rgb(255, 255, 255)" {
		t.Errorf("background = %q", kit.ColorBackground)
	}
	if kit.ColorAccent != "#000000" {
		t.Errorf("accent should default, got %q", kit.ColorAccent)
	}
	if kit.ToneOfVoice != "professional" {
		t.Errorf("tone = %q", kit.ToneOfVoice)
	}
}

func TestPipelineKitNameFallsBackToBrandName(t *testing.T) {
	renderer := &stubRenderer{page: &RenderedPage{
		FinalURL: "https://acme.test/",
		HTML:     `<html><head><title>Acme</title></head><body></body></html>`,
	}}

	svc := NewService(renderer, NewRanker(), NewNormalizer(fakeRegistry(`{"name":"Acme"}`, nil)), nil)

	kit, err := svc.Scrape(context.Background(), uuid.New(), "https://acme.test", "")
	if err != nil {
		t.Fatalf("Scrape failed: %v", err)
	}
	if kit.KitName != "Acme" {
		t.Errorf("kit name should fall back to the brand name, got %q", kit.KitName)
	}
}

func TestPipelineUsesCache(t *testing.T) {
	renderer := &stubRenderer{page: &RenderedPage{
		FinalURL: "https://acme.test/",
		HTML:     `<html><head><title>Acme</title></head><body></body></html>`,
	}}
	cache := newMemCache()

	svc := NewService(renderer, NewRanker(), NewNormalizer(fakeRegistry(`{"name":"Acme"}`, nil)), cache)

	if _, err := svc.Scrape(context.Background(), uuid.New(), "https://acme.test", ""); err != nil {
		t.Fatalf("first Scrape failed: %v", err)
	}
	if _, err := svc.Scrape(context.Background(), uuid.New(), "https://acme.test", ""); err != nil {
		t.Fatalf("second Scrape failed: %v", err)
	}

	if renderer.calls != 1 {
		t.Errorf("second scrape should be served from cache, renders = %d", renderer.calls)
	}
}
