package model

import (
	"strings"

	"golang.org/x/net/html"
)

// ContentBundle is the artifact under refinement: the five text fields the
// publisher accepts for one product. Bullets are stored as individual
// list-item strings in their HTML wrapper form ("<li>text</li>"); a finalized
// bundle carries exactly eight of them.
type ContentBundle struct {
	Title           string   `json:"title"`
	Bullets         []string `json:"bullets"`
	Description     string   `json:"description"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
}

// Clone returns a deep copy of the bundle. Repair mutates bundles in place,
// so callers that need the pre-repair state copy first.
func (b *ContentBundle) Clone() *ContentBundle {
	c := *b
	c.Bullets = append([]string(nil), b.Bullets...)
	return &c
}

// BulletsHTML returns the concatenated list-item representation used at the
// batch and prompt boundaries.
func (b *ContentBundle) BulletsHTML() string {
	return strings.Join(b.Bullets, "")
}

// CombinedText concatenates every text field, used for whole-bundle scans
// such as medical-claim and keyword checks.
func (b *ContentBundle) CombinedText() string {
	parts := []string{b.Title, b.Description, b.MetaTitle, b.MetaDescription}
	for _, item := range b.Bullets {
		parts = append(parts, BulletText(item))
	}
	return strings.Join(parts, " ")
}

// WrapBullet wraps bullet text in its list-item form, stripping any wrapper
// already present so wrapping is idempotent.
func WrapBullet(text string) string {
	return "<li>" + BulletText(text) + "</li>"
}

// BulletText extracts the visible text of a single bullet item. Input that
// carries no markup passes through trimmed.
func BulletText(item string) string {
	if !strings.Contains(item, "<") {
		return strings.TrimSpace(item)
	}

	doc, err := html.Parse(strings.NewReader(item))
	if err != nil {
		return strings.TrimSpace(item)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(buf.String())
}

// ParseBulletsHTML splits a concatenated list-item string into individual
// wrapped items. Text outside any <li> element is ignored; a string with no
// list items at all yields nil.
func ParseBulletsHTML(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var items []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			var buf strings.Builder
			var text func(*html.Node)
			text = func(t *html.Node) {
				if t.Type == html.TextNode {
					buf.WriteString(t.Data)
				}
				for c := t.FirstChild; c != nil; c = c.NextSibling {
					text(c)
				}
			}
			text(n)
			items = append(items, WrapBullet(buf.String()))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return items
}

// NormalizeBullets coerces the two accepted adapter bullet shapes (a list of
// strings, or one concatenated wrapped string) into wrapped items. Plain
// strings in a list are wrapped; already-wrapped strings pass through.
func NormalizeBullets(items []string) []string {
	var out []string
	for _, item := range items {
		if strings.Contains(item, "<li") {
			out = append(out, ParseBulletsHTML(item)...)
			continue
		}
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, WrapBullet(trimmed))
		}
	}
	return out
}
