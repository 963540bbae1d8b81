package sanity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ejez/portabletext"
)

// Entry is a published blog entry as projected by the site's queries.
type Entry struct {
	ID           string          `json:"_id"`
	Kind         string          `json:"kind"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	PublishedAt  string          `json:"publishedAt"`
	ReadingTime  float64         `json:"readingTime"`
	CanonicalURL string          `json:"canonicalUrl"`
	Body         json.RawMessage `json:"body"`
}

// DecodeEntry reads a single entry object.
func DecodeEntry(r io.Reader) (Entry, error) {
	var e Entry
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return e, nil
}

// Document decodes the entry body. A missing or null body is an empty
// document.
func (e Entry) Document() (portabletext.Document, error) {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return portabletext.Document{}, nil
	}
	doc, err := portabletext.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("entry %q body: %w", e.Slug, err)
	}
	return doc, nil
}

// RouteSlug is the "<kind>-<slug>" segment used in article URLs.
func (e Entry) RouteSlug() string {
	kind := SanitizeSlug(e.Kind)
	if kind == "" {
		kind = "entry"
	}
	slug := SanitizeSlug(e.Slug)
	if slug == "" {
		slug = "sin-slug"
	}
	return kind + "-" + slug
}

// RoutePath is the site-relative directory of the article page.
func (e Entry) RoutePath() string {
	return "blog/" + e.RouteSlug() + "/"
}

// Canonical returns the entry's canonicalUrl, or the article page under
// siteURL when the entry has none.
func (e Entry) Canonical(siteURL string) string {
	if u := strings.TrimSpace(e.CanonicalURL); u != "" {
		return u
	}
	return strings.TrimRight(siteURL, "/") + "/" + e.RoutePath()
}

// ReadingMinutes is the rounded reading time, or 0 when unknown.
func (e Entry) ReadingMinutes() int {
	if e.ReadingTime <= 0 {
		return 0
	}
	return int(math.Round(e.ReadingTime))
}

// FileName is the flat output file name of the article page.
func (e Entry) FileName() string {
	return "article-" + e.RouteSlug() + ".html"
}
