package html

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ejez/portabletext"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces & < > " and ' with HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// NormalizeURL returns the trimmed href when it is site-relative ("/..."),
// a fragment ("#...") or uses the http, https, mailto or tel scheme, and ""
// otherwise.
func NormalizeURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if href[0] == '/' || href[0] == '#' {
		return href
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"http:", "https:", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, scheme) {
			return href
		}
	}
	return ""
}

// IsExternal reports whether a normalized href leaves the site.
func IsExternal(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "http:") || strings.HasPrefix(lower, "https:")
}

func (r *Renderer) spans(b portabletext.TextBlock) string {
	var out strings.Builder
	for _, s := range b.Spans {
		if s.Type != "span" {
			continue
		}
		var text string
		if s.Text != nil {
			text = *s.Text
		}
		html := strings.ReplaceAll(Escape(text), "\n", "<br>")
		for _, mark := range s.Marks {
			html = r.applyMark(b.ResolveMark(mark), mark, html)
		}
		out.WriteString(html)
	}
	return out.String()
}

func (r *Renderer) applyMark(def portabletext.MarkDefinition, name, html string) string {
	switch def.Type {
	case portabletext.MarkStrong:
		return "<strong>" + html + "</strong>"
	case portabletext.MarkEmphasis:
		return "<em>" + html + "</em>"
	case portabletext.MarkCode:
		return "<code>" + html + "</code>"
	case portabletext.MarkLink:
		href := NormalizeURL(def.Href)
		if href == "" {
			r.log.Debug("dropping link with disallowed href", zap.String("mark", name), zap.String("href", def.Href))
			return html
		}
		attrs := `href="` + Escape(href) + `"`
		if IsExternal(href) {
			attrs += ` target="_blank" rel="noopener noreferrer"`
		}
		return "<a " + attrs + ">" + html + "</a>"
	default:
		return html
	}
}
