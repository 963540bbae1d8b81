package html

import (
	"strings"

	"github.com/ejez/portabletext"
	"github.com/ejez/portabletext/sanity"
)

var toneAliases = map[string]string{
	"success":  "tip",
	"critical": "danger",
	"neutral":  "note",
}

var tones = map[string]bool{
	"note":    true,
	"info":    true,
	"tip":     true,
	"warning": true,
	"danger":  true,
}

// NormalizeTone maps a callout tone onto note, info, tip, warning or danger.
// Unrecognized tones become info.
func NormalizeTone(tone string) string {
	t := sanity.SanitizeSlug(tone)
	if alias, ok := toneAliases[t]; ok {
		t = alias
	}
	if tones[t] {
		return t
	}
	return "info"
}

func (r *Renderer) callout(out *strings.Builder, b portabletext.CalloutBlock) {
	var body string
	switch {
	case b.HasBody:
		body = r.Render(b.Body, RenderOptions{})
	case b.Message != "":
		body = "<p>" + Escape(b.Message) + "</p>"
	}
	if b.Title == "" && body == "" {
		r.log.Debug("skipping empty callout")
		return
	}

	out.WriteString(`<aside class="article-callout is-` + NormalizeTone(b.Tone) + `" role="note">`)
	if b.Title != "" {
		out.WriteString(`<h4 class="article-callout-title">` + Escape(b.Title) + "</h4>")
	}
	out.WriteString(`<div class="article-callout-body">` + body + "</div></aside>")
}
