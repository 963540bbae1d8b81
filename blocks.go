package portabletext

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Block.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindImage
	KindDivider
	KindTable
	KindCallout
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindDivider:
		return "divider"
	case KindTable:
		return "table"
	case KindCallout:
		return "callout"
	default:
		return "unknown"
	}
}

// Block is the typed view of a Node. The set of implementations is closed:
// TextBlock, ImageBlock, DividerBlock, TableBlock, CalloutBlock and
// UnknownBlock.
type Block interface {
	Kind() Kind
	block()
}

// TextBlock is a paragraph, heading, blockquote or list item.
type TextBlock struct {
	Style    string // "normal" when unset
	ListItem string // "" when the block is not a list item
	Level    int
	Spans    []Span
	Marks    map[string]MarkDefinition
}

// ImageBlock references an image by CMS asset id or by absolute URL.
type ImageBlock struct {
	AssetRef string
	AssetURL string
	Alt      string
	Caption  string
}

// DividerBlock is a horizontal rule. Style is the raw value from the CMS.
type DividerBlock struct {
	Style string
}

// TableBlock holds rows of cells already reduced to plain text.
type TableBlock struct {
	Caption string
	Rows    [][]string
}

// CalloutBlock is a highlighted aside. Body holds nested blocks when the
// CMS sent an array; HasBody distinguishes an empty array from no array.
type CalloutBlock struct {
	Tone    string
	Title   string
	Message string
	Body    []Block
	HasBody bool
}

// UnknownBlock carries a node whose _type has no renderer.
type UnknownBlock struct {
	Type string
}

func (TextBlock) Kind() Kind    { return KindText }
func (ImageBlock) Kind() Kind   { return KindImage }
func (DividerBlock) Kind() Kind { return KindDivider }
func (TableBlock) Kind() Kind   { return KindTable }
func (CalloutBlock) Kind() Kind { return KindCallout }
func (UnknownBlock) Kind() Kind { return KindUnknown }

func (TextBlock) block()    {}
func (ImageBlock) block()   {}
func (DividerBlock) block() {}
func (TableBlock) block()   {}
func (CalloutBlock) block() {}
func (UnknownBlock) block() {}

// Source returns the asset reference, falling back to the URL.
func (b ImageBlock) Source() string {
	if b.AssetRef != "" {
		return b.AssetRef
	}
	return b.AssetURL
}

// ListMarker helpers.

var checklistMarkers = map[string]bool{
	"check":      true,
	"checklist":  true,
	"checkmarks": true,
	"checked":    true,
}

// IsListItem reports whether the block carries a list marker.
func (b TextBlock) IsListItem() bool { return b.ListItem != "" }

// Ordered reports whether the list marker asks for a numbered list.
func (b TextBlock) Ordered() bool { return strings.ToLower(b.ListItem) == "number" }

// Checklist reports whether the list marker is one of the checklist names.
func (b TextBlock) Checklist() bool { return checklistMarkers[strings.ToLower(b.ListItem)] }

// MarkType is the closed set of mark meanings.
type MarkType int

const (
	MarkNone MarkType = iota
	MarkStrong
	MarkEmphasis
	MarkCode
	MarkLink
)

// MarkDefinition is the resolved meaning of a mark name. Href is set only
// for MarkLink.
type MarkDefinition struct {
	Type MarkType
	Href string
}

var decoratorMarks = map[string]MarkType{
	"strong": MarkStrong,
	"bold":   MarkStrong,
	"b":      MarkStrong,
	"em":     MarkEmphasis,
	"code":   MarkCode,
}

// ResolveMark maps a span's mark name to its definition. Decorators never
// consult the table; any other name is looked up in b.Marks, and a miss
// yields MarkNone.
func (b TextBlock) ResolveMark(name string) MarkDefinition {
	if t, ok := decoratorMarks[name]; ok {
		return MarkDefinition{Type: t}
	}
	return b.Marks[name]
}

// Blocks converts every node of the document to its typed view, keeping
// order. Unknown node types become UnknownBlock values.
func (d Document) Blocks() []Block {
	out := make([]Block, 0, len(d))
	for i := range d {
		out = append(out, ToBlock(&d[i]))
	}
	return out
}

// ToBlock converts a single node.
func ToBlock(n *Node) Block {
	switch n.Type {
	case "block":
		return textBlock(n)
	case "image":
		return imageBlock(n)
	case "divider":
		return DividerBlock{Style: n.StringField("style", "variant")}
	case "table":
		return tableBlock(n)
	case "callout":
		return calloutBlock(n)
	default:
		return UnknownBlock{Type: n.Type}
	}
}

func textBlock(n *Node) TextBlock {
	b := TextBlock{
		Style:    n.GetStyle(),
		ListItem: n.GetListItem(),
		Level:    n.GetListLevel(),
		Spans:    n.Children,
		Marks:    make(map[string]MarkDefinition, len(n.MarkDefs)),
	}
	for _, md := range n.MarkDefs {
		if md.Key == "" {
			continue
		}
		def := MarkDefinition{Type: MarkNone}
		if md.Type == "link" {
			if href, ok := md.Raw["href"].(string); ok && href != "" {
				def = MarkDefinition{Type: MarkLink, Href: href}
			}
		}
		b.Marks[md.Key] = def
	}
	return b
}

func imageBlock(n *Node) ImageBlock {
	b := ImageBlock{
		AssetRef: n.StringField("assetRef"),
		AssetURL: n.StringField("assetUrl"),
		Alt:      rawString(n, "alt"),
		Caption:  rawString(n, "caption"),
	}
	// Unprojected Sanity images keep the reference under asset.
	if asset, ok := n.Raw["asset"].(map[string]any); ok {
		if b.AssetRef == "" {
			b.AssetRef = stringValue(asset["_ref"])
		}
		if b.AssetURL == "" {
			b.AssetURL = stringValue(asset["url"])
		}
	}
	return b
}

func tableBlock(n *Node) TableBlock {
	b := TableBlock{Caption: n.StringField("caption", "title", "label")}
	rows, _ := n.Raw["rows"].([]any)
	for _, row := range rows {
		var cells []any
		switch r := row.(type) {
		case []any:
			cells = r
		case map[string]any:
			cells, _ = r["cells"].([]any)
		}
		texts := make([]string, 0, len(cells))
		for _, c := range cells {
			texts = append(texts, CellText(c))
		}
		b.Rows = append(b.Rows, texts)
	}
	return b
}

// CellText reduces a table cell to plain text: strings as-is, scalars
// stringified, objects by their first string field among text, value and
// content. Anything else is empty.
func CellText(cell any) string {
	switch c := cell.(type) {
	case string:
		return c
	case json.Number:
		return c.String()
	case bool:
		return strconv.FormatBool(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case map[string]any:
		for _, k := range []string{"text", "value", "content"} {
			if s, ok := c[k].(string); ok {
				return s
			}
		}
	}
	return ""
}

func calloutBlock(n *Node) CalloutBlock {
	b := CalloutBlock{
		Tone:    n.StringField("tone", "variant", "style", "type"),
		Title:   n.StringField("title", "heading", "label"),
		Message: n.StringField("text", "message", "description", "contentText", "bodyText", "body", "content"),
	}
	for _, field := range []string{"body", "content"} {
		if nested, ok := DocumentFromValue(n.Raw[field]); ok {
			b.Body = nested.Blocks()
			b.HasBody = true
			break
		}
	}
	return b
}

// rawString returns a string field as authored, without trimming.
func rawString(n *Node, name string) string {
	v, _ := n.Field(name)
	s, _ := v.(string)
	return s
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
