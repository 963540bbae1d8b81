// Package html renders Portable Text blocks to an HTML fragment.
//
// The same Renderer serves the browser-facing article page and the static
// build, so a given document always produces byte-identical markup. Rendering
// never fails: blocks that cannot be rendered (unknown types, unresolvable
// images, empty paragraphs, tables without rows, callouts without content)
// are omitted and reported at debug level on the configured logger.
//
//	r := html.New(html.Options{Images: cfg})
//	fragment := r.RenderDocument(doc)
//
// A Renderer holds no per-call state and is safe for concurrent use.
package html

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ejez/portabletext"
	"github.com/ejez/portabletext/sanity"
)

const (
	// DefaultFallbackMessage is shown for a document with no visible content.
	DefaultFallbackMessage = "Este artículo todavía no tiene contenido publicado."
	// DefaultImageAlt is used for inline images without alt text.
	DefaultImageAlt = "Imagen del artículo"
)

// ImageResolver turns an asset reference or URL into a displayable URL, or
// "" when it cannot. sanity.Config implements it.
type ImageResolver interface {
	ImageURL(source string, opts sanity.ImageOptions) string
}

// ImageResolverFunc adapts a function to ImageResolver.
type ImageResolverFunc func(source string, opts sanity.ImageOptions) string

func (f ImageResolverFunc) ImageURL(source string, opts sanity.ImageOptions) string {
	return f(source, opts)
}

// Options configures a Renderer. The zero value is usable: images resolve
// only when given as absolute URLs and nothing is logged.
type Options struct {
	Images          ImageResolver
	Logger          *zap.Logger
	FallbackMessage string
	ImageAlt        string
}

// RenderOptions controls a single Render call.
type RenderOptions struct {
	// EmitFallbackWhenEmpty replaces an empty result with the fallback
	// paragraph. Nested callout bodies are always rendered without it.
	EmitFallbackWhenEmpty bool
}

// inlineImage is the transform applied to images inside article bodies.
var inlineImage = sanity.ImageOptions{Width: 1400, Fit: "max", Auto: "format", Quality: 84}

// Renderer converts typed blocks to HTML.
type Renderer struct {
	images   ImageResolver
	log      *zap.Logger
	fallback string
	alt      string
}

// New returns a Renderer for opts.
func New(opts Options) *Renderer {
	r := &Renderer{
		images:   opts.Images,
		log:      opts.Logger,
		fallback: opts.FallbackMessage,
		alt:      opts.ImageAlt,
	}
	if r.images == nil {
		r.images = sanity.Config{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.fallback == "" {
		r.fallback = DefaultFallbackMessage
	}
	if r.alt == "" {
		r.alt = DefaultImageAlt
	}
	return r
}

// RenderDocument converts doc to typed blocks and renders them with the
// fallback message enabled.
func (r *Renderer) RenderDocument(doc portabletext.Document) string {
	return r.Render(doc.Blocks(), RenderOptions{EmitFallbackWhenEmpty: true})
}

// Render produces the HTML fragment for blocks.
func (r *Renderer) Render(blocks []portabletext.Block, opts RenderOptions) string {
	var (
		out strings.Builder
		run listRun
	)

	for _, b := range blocks {
		if b == nil {
			continue
		}
		if tb, ok := b.(portabletext.TextBlock); ok && tb.IsListItem() {
			tag, class := listKind(tb)
			if run.active() && (run.tag != tag || run.class != class) {
				run.flush(&out)
			}
			run.tag, run.class = tag, class
			run.items = append(run.items, "<li>"+r.spans(tb)+"</li>")
			continue
		}

		run.flush(&out)

		switch b := b.(type) {
		case portabletext.TextBlock:
			r.text(&out, b)
		case portabletext.ImageBlock:
			r.image(&out, b)
		case portabletext.DividerBlock:
			divider(&out, b)
		case portabletext.TableBlock:
			table(&out, b)
		case portabletext.CalloutBlock:
			r.callout(&out, b)
		case portabletext.UnknownBlock:
			r.log.Debug("skipping unsupported block", zap.String("type", b.Type))
		default:
			r.log.Debug("skipping unsupported block", zap.Stringer("kind", b.Kind()))
		}
	}
	run.flush(&out)

	if out.Len() == 0 && opts.EmitFallbackWhenEmpty {
		return "<p>" + Escape(r.fallback) + "</p>"
	}
	return out.String()
}

// listRun accumulates consecutive list items of the same list kind.
type listRun struct {
	tag   string
	class string
	items []string
}

func (l *listRun) active() bool { return l.tag != "" }

func (l *listRun) flush(out *strings.Builder) {
	if l.tag != "" && len(l.items) > 0 {
		out.WriteString("<" + l.tag + ` class="` + l.class + `">`)
		for _, item := range l.items {
			out.WriteString(item)
		}
		out.WriteString("</" + l.tag + ">")
	}
	l.tag, l.class, l.items = "", "", l.items[:0]
}

func listKind(b portabletext.TextBlock) (tag, class string) {
	tag = "ul"
	if b.Ordered() {
		tag = "ol"
	}
	class = "article-list"
	if b.Checklist() {
		class = "article-list article-checklist"
	}
	return tag, class
}

var styleTags = map[string]string{
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"blockquote": "blockquote",
}

func (r *Renderer) text(out *strings.Builder, b portabletext.TextBlock) {
	content := r.spans(b)
	if strings.TrimSpace(content) == "" {
		return
	}
	tag, ok := styleTags[b.Style]
	if !ok {
		tag = "p"
	}
	out.WriteString("<" + tag + ">" + content + "</" + tag + ">")
}
