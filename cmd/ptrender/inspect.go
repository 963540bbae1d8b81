package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ejez/portabletext"
	"github.com/ejez/portabletext/html"
)

// LinksCmd lists every link annotation with the href the renderer would use.
type LinksCmd struct {
	File string `arg:"" help:"Portable Text array or entry object (JSON)" type:"existingfile"`
}

func (c *LinksCmd) Run(env *appEnv) error {
	src, err := loadSource(c.File)
	if err != nil {
		return err
	}
	count, err := printLinks(env.Out, src.Doc.Blocks(), 0)
	if err != nil {
		return err
	}
	if count == 0 {
		_, err = fmt.Fprintln(env.Out, "No links found")
		return err
	}
	_, err = fmt.Fprintf(env.Out, "Total links: %d\n", count)
	return err
}

// printLinks walks blocks, descending into callout bodies, and returns the
// running link count.
func printLinks(w io.Writer, blocks []portabletext.Block, count int) (int, error) {
	for _, b := range blocks {
		switch b := b.(type) {
		case portabletext.TextBlock:
			for _, span := range b.Spans {
				for _, mark := range span.Marks {
					def := b.ResolveMark(mark)
					if def.Type != portabletext.MarkLink {
						continue
					}
					count++
					var text string
					if span.Text != nil {
						text = *span.Text
					}
					if _, err := fmt.Fprintf(w, "[%d] %s\n    URL: %s (%s)\n", count, text, def.Href, linkStatus(def.Href)); err != nil {
						return count, err
					}
				}
			}
		case portabletext.CalloutBlock:
			var err error
			if count, err = printLinks(w, b.Body, count); err != nil {
				return count, err
			}
		}
	}
	return count, nil
}

func linkStatus(href string) string {
	normalized := html.NormalizeURL(href)
	switch {
	case normalized == "":
		return "rejected"
	case html.IsExternal(normalized):
		return "external"
	default:
		return "internal"
	}
}

// OutlineCmd prints the h2-h4 headings of a document, indented by level.
type OutlineCmd struct {
	File string `arg:"" help:"Portable Text array or entry object (JSON)" type:"existingfile"`
}

var headingDepth = map[string]int{"h2": 0, "h3": 1, "h4": 2}

func (c *OutlineCmd) Run(env *appEnv) error {
	src, err := loadSource(c.File)
	if err != nil {
		return err
	}
	return portabletext.Walk(src.Doc, func(n *portabletext.Node) error {
		if !n.IsBlock() || n.GetListItem() != "" {
			return nil
		}
		depth, ok := headingDepth[n.GetStyle()]
		if !ok {
			return nil
		}
		text := strings.TrimSpace(n.GetText())
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintf(env.Out, "%s- %s\n", strings.Repeat("  ", depth), text)
		return err
	})
}
