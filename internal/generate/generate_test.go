// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"capsule/internal/ai"
	"capsule/internal/models"
)

type fakeProvider struct {
	reply string
	err   error
	last  string
}

func (f *fakeProvider) Generate(ctx context.Context, system, user string) (string, error) {
	f.last = user
	return f.reply, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func newGen(reply string, err error) (*Generator, *fakeProvider) {
	p := &fakeProvider{reply: reply, err: err}
	r := ai.NewRegistry("fake", nil)
	r.Register("fake", p)
	return NewGenerator(r), p
}

func TestDraft(t *testing.T) {
	g, p := newGen("```json\n{\"title\":\"Welcome\",\"description\":\"A welcome email\",\"code\":\"<html></html>\"}\n```", nil)

	kit := &models.BrandKit{
		KitName:     "Acme",
		ToneOfVoice: "friendly",
		ColorAccent: "#FF0000",
		Socials:     map[string]string{"twitter": "https://twitter.com/acme"},
	}

	d, err := g.Draft(context.Background(), "write a welcome email", kit, "")
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if d.Title != "Welcome" || d.Code != "<html></html>" {
		t.Errorf("unexpected draft: %+v", d)
	}

	if !strings.Contains(p.last, "write a welcome email") {
		t.Error("instruction missing from prompt")
	}
	if !strings.Contains(p.last, "friendly") || !strings.Contains(p.last, "#FF0000") {
		t.Error("brand kit details missing from prompt")
	}
	if !strings.Contains(p.last, "twitter.com/acme") {
		t.Error("socials missing from prompt")
	}
}

func TestDraftRefinementIncludesPriorHTML(t *testing.T) {
	g, p := newGen(`{"title":"v2","description":"","code":"<html>v2</html>"}`, nil)

	_, err := g.Draft(context.Background(), "make the button bigger", nil, "<html>v1</html>")
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if !strings.Contains(p.last, "<html>v1</html>") {
		t.Error("prior HTML missing from refinement prompt")
	}
}

func TestDraftMissingCode(t *testing.T) {
	g, _ := newGen(`{"title":"Welcome","description":"no code here"}`, nil)

	_, err := g.Draft(context.Background(), "write an email", nil, "")
	if err == nil {
		t.Fatal("expected validation error for empty code")
	}

	var pe *ai.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func TestBuildPromptWithoutKit(t *testing.T) {
	prompt := BuildPrompt("hello", nil, "")
	if strings.Contains(prompt, "Brand kit") {
		t.Error("nil kit should not emit a brand kit section")
	}
	if !strings.Contains(prompt, "hello") {
		t.Error("instruction missing")
	}
}
