package html

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ejez/portabletext"
	"github.com/ejez/portabletext/sanity"
)

// NormalizeDividerStyle returns dashed or dotted when style names one of
// them, and solid otherwise.
func NormalizeDividerStyle(style string) string {
	switch s := sanity.SanitizeSlug(style); s {
	case "dashed", "dotted":
		return s
	default:
		return "solid"
	}
}

func divider(out *strings.Builder, b portabletext.DividerBlock) {
	out.WriteString(`<hr class="article-divider is-` + NormalizeDividerStyle(b.Style) + `" role="separator">`)
}

func (r *Renderer) image(out *strings.Builder, b portabletext.ImageBlock) {
	src := r.images.ImageURL(b.Source(), inlineImage)
	if src == "" {
		r.log.Debug("skipping unresolvable image", zap.String("source", b.Source()))
		return
	}
	alt := b.Alt
	if alt == "" {
		alt = r.alt
	}
	out.WriteString(`<figure class="article-inline-image">`)
	out.WriteString(`<img loading="lazy" decoding="async" src="` + Escape(src) + `" alt="` + Escape(alt) + `">`)
	if b.Caption != "" {
		out.WriteString("<figcaption>" + Escape(b.Caption) + "</figcaption>")
	}
	out.WriteString("</figure>")
}
