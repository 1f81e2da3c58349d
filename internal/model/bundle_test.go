package model

import (
	"reflect"
	"strings"
	"testing"
)

func TestWrapBullet(t *testing.T) {
	if got := WrapBullet("Fast setup"); got != "<li>Fast setup</li>" {
		t.Errorf("WrapBullet = %q", got)
	}
	// Wrapping is idempotent
	if got := WrapBullet("<li>Fast setup</li>"); got != "<li>Fast setup</li>" {
		t.Errorf("WrapBullet on wrapped input = %q", got)
	}
}

func TestBulletText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<li>Fast setup</li>", "Fast setup"},
		{"plain text", "plain text"},
		{"<li>  padded  </li>", "padded"},
		{"<li><b>bold</b> claim</li>", "bold claim"},
	}
	for _, tt := range tests {
		if got := BulletText(tt.in); got != tt.want {
			t.Errorf("BulletText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseBulletsHTML(t *testing.T) {
	items := ParseBulletsHTML("<li>one</li><li>two</li><li>three</li>")
	want := []string{"<li>one</li>", "<li>two</li>", "<li>three</li>"}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("ParseBulletsHTML = %v, want %v", items, want)
	}

	if got := ParseBulletsHTML(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := ParseBulletsHTML("no list items here"); got != nil {
		t.Errorf("expected nil when no <li> present, got %v", got)
	}
}

func TestNormalizeBullets(t *testing.T) {
	// Mixed plain and wrapped, including one concatenated string
	in := []string{"plain", "<li>wrapped</li>", "<li>a</li><li>b</li>"}
	got := NormalizeBullets(in)
	want := []string{"<li>plain</li>", "<li>wrapped</li>", "<li>a</li>", "<li>b</li>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeBullets = %v, want %v", got, want)
	}
}

func TestBundleClone(t *testing.T) {
	b := &ContentBundle{Title: "Acme Widget", Bullets: []string{"<li>one</li>"}}
	c := b.Clone()
	c.Bullets[0] = "<li>changed</li>"
	if b.Bullets[0] != "<li>one</li>" {
		t.Error("Clone should copy the bullets slice")
	}
}

func TestCombinedText(t *testing.T) {
	b := &ContentBundle{
		Title:           "Acme Widget",
		Bullets:         []string{"<li>durable build</li>"},
		Description:     "A useful item.",
		MetaTitle:       "Acme",
		MetaDescription: "Overview.",
	}
	text := b.CombinedText()
	for _, want := range []string{"Acme Widget", "durable build", "A useful item."} {
		if !strings.Contains(text, want) {
			t.Errorf("CombinedText missing %q: %s", want, text)
		}
	}
}
