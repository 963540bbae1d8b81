package portabletext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

//
// Public API
//

// Document is an ordered list of Portable Text nodes as delivered by the CMS.
// A Document is never modified by this package; concurrent reads are safe.
type Document []Node

// Node represents a Portable Text node (block or custom object).
// Known fields are modeled; every other field is kept in Raw.
type Node struct {
	Type string `json:"_type"`
	Key  string `json:"_key,omitempty"`

	// Text block fields
	Style    *string   `json:"style,omitempty"`
	Children []Span    `json:"children,omitempty"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`

	// List-related fields
	ListItem *string `json:"listItem,omitempty"`
	Level    *int    `json:"level,omitempty"`

	// Raw holds custom fields (image asset refs, table rows, callout bodies...).
	Raw map[string]any `json:"-"`
}

// Span represents an inline node in a block's children array.
// Usually _type == "span"; inline objects keep their fields in Raw.
type Span struct {
	Type  string   `json:"_type"`
	Text  *string  `json:"text,omitempty"`
	Marks []string `json:"marks,omitempty"`

	Raw map[string]any `json:"-"`
}

// MarkDef represents an annotation definition (e.g. link objects).
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`

	Raw map[string]any `json:"-"`
}

// Decode parses a JSON Portable Text array into a Document.
//
// The decoder only fails when the input is not a well-formed JSON array.
// Content the CMS may legitimately send in odd shapes is tolerated: items
// that are not objects (null, strings, numbers, arrays) are skipped, a node
// without _type decodes with an empty Type, non-string marks are dropped and
// a non-numeric level lands in Raw.
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '[' {
		return nil, wrap("decode", "", fmt.Errorf("%w: expected '['", ErrUnexpectedToken))
	}

	doc := Document{}
	i := 0
	for dec.More() {
		var rm json.RawMessage
		if err := dec.Decode(&rm); err != nil {
			return nil, wrap("decode", fmt.Sprintf("[%d]", i), err)
		}
		obj, err := decodeObjectUseNumber(rm)
		if err != nil {
			return nil, wrap("node", fmt.Sprintf("[%d]", i), err)
		}
		if obj != nil {
			doc = append(doc, nodeFromObject(obj))
		}
		i++
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, wrap("decode", "", err)
	}
	d, ok = tok.(json.Delim)
	if !ok || d != ']' {
		return nil, wrap("decode", "", fmt.Errorf("%w: expected ']'", ErrUnexpectedToken))
	}

	return doc, nil
}

// DecodeString is a convenience wrapper for Decode.
func DecodeString(s string) (Document, error) {
	return Decode(strings.NewReader(s))
}

// DocumentFromValue builds a Document from an already-decoded JSON value,
// such as a nested callout body held in a node's Raw map. Items that are not
// objects are skipped. ok is false when v is not an array.
func DocumentFromValue(v any) (doc Document, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	doc = make(Document, 0, len(arr))
	for _, item := range arr {
		obj, isObj := item.(map[string]any)
		if !isObj {
			continue
		}
		doc = append(doc, nodeFromObject(obj))
	}
	return doc, true
}

// Walk visits all top-level nodes in order; stops early on fn error.
func Walk(doc Document, fn func(*Node) error) error {
	for i := range doc {
		if err := fn(&doc[i]); err != nil {
			return err
		}
	}
	return nil
}

// IsBlock reports whether this node is a Portable Text "block".
func (n *Node) IsBlock() bool { return n != nil && n.Type == "block" }

// GetStyle returns the style or a default value.
func (n *Node) GetStyle() string {
	if n.Style != nil && *n.Style != "" {
		return *n.Style
	}
	return "normal"
}

// GetText concatenates all span text in a block.
func (n *Node) GetText() string {
	var buf strings.Builder
	for _, child := range n.Children {
		if child.Text != nil {
			buf.WriteString(*child.Text)
		}
	}
	return buf.String()
}

// GetListItem returns the list marker, or "" for a non-list block.
func (n *Node) GetListItem() string {
	if n.ListItem == nil {
		return ""
	}
	return *n.ListItem
}

// GetListLevel returns the list level or 1 if not set.
func (n *Node) GetListLevel() int {
	if n.Level != nil {
		return *n.Level
	}
	return 1
}

// Field looks a field up by its JSON name, covering both modeled fields and
// Raw. Custom objects such as dividers and callouts reuse "style" for their
// own purposes, so it is reachable here too.
func (n *Node) Field(name string) (any, bool) {
	switch name {
	case "_type":
		return n.Type, true
	case "_key":
		if n.Key == "" {
			return nil, false
		}
		return n.Key, true
	case "style":
		if n.Style == nil {
			break
		}
		return *n.Style, true
	case "listItem":
		if n.ListItem == nil {
			break
		}
		return *n.ListItem, true
	}
	v, ok := n.Raw[name]
	return v, ok
}

// StringField returns the first field among names holding a non-blank
// string, trimmed. Non-string values are ignored.
func (n *Node) StringField(names ...string) string {
	for _, name := range names {
		v, ok := n.Field(name)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// AddSpan adds a text span to a block node.
func (n *Node) AddSpan(text string, marks ...string) *Node {
	n.Children = append(n.Children, Span{
		Type:  "span",
		Text:  &text,
		Marks: marks,
		Raw:   map[string]any{},
	})
	return n
}

// AddMarkDef adds a mark definition to a block node.
func (n *Node) AddMarkDef(key, markType string, raw map[string]any) *Node {
	md := MarkDef{
		Key:  key,
		Type: markType,
		Raw:  raw,
	}
	if md.Raw == nil {
		md.Raw = map[string]any{}
	}
	n.MarkDefs = append(n.MarkDefs, md)
	return n
}

// AddLink defines a link annotation and adds a span carrying it.
func (n *Node) AddLink(key, href, text string, marks ...string) *Node {
	n.AddMarkDef(key, "link", map[string]any{"href": href})
	return n.AddSpan(text, append(marks, key)...)
}

// SetListItem turns a block into a list item.
func (n *Node) SetListItem(marker string) *Node {
	n.ListItem = &marker
	return n
}

// Set stores a custom field in Raw.
func (n *Node) Set(name string, v any) *Node {
	if n.Raw == nil {
		n.Raw = map[string]any{}
	}
	n.Raw[name] = v
	return n
}

// HasMark checks if a span has a specific mark.
func (s *Span) HasMark(mark string) bool {
	for _, m := range s.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

// NewBlock creates a basic block node.
func NewBlock(style string) *Node {
	return &Node{
		Type:     "block",
		Style:    &style,
		Children: []Span{},
		MarkDefs: []MarkDef{},
		Raw:      map[string]any{},
	}
}

// NewNode creates a custom node with the given type.
func NewNode(nodeType string) *Node {
	return &Node{
		Type: nodeType,
		Raw:  map[string]any{},
	}
}

//
// Errors (typed + path aware)
//

var ErrUnexpectedToken = errors.New("unexpected JSON token")

type Error struct {
	Op   string // "decode", "node"
	Path string // e.g. "[3]"
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("portabletext %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("portabletext %s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

//
// Parsing
//

func nodeFromObject(obj map[string]any) Node {
	var n Node
	n.Raw = map[string]any{}

	for k, v := range obj {
		switch k {
		case "_type":
			if s, ok := v.(string); ok {
				n.Type = s
			}
		case "_key":
			if s, ok := v.(string); ok {
				n.Key = s
			} else {
				n.Raw[k] = v
			}
		case "style":
			if s, ok := v.(string); ok {
				n.Style = &s
			} else {
				n.Raw[k] = v
			}
		case "children":
			n.Children = spansFromValue(v)
		case "markDefs":
			n.MarkDefs = markDefsFromValue(v)
		case "listItem":
			if s, ok := v.(string); ok {
				n.ListItem = &s
			} else {
				n.Raw[k] = v
			}
		case "level":
			num, ok := v.(json.Number)
			if !ok {
				n.Raw[k] = v
				continue
			}
			iv, err := num.Int64()
			if err != nil {
				n.Raw[k] = v
				continue
			}
			i := int(iv)
			n.Level = &i
		default:
			n.Raw[k] = v
		}
	}

	return n
}

func spansFromValue(v any) []Span {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Span, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var s Span
		s.Raw = map[string]any{}
		for k, v := range obj {
			switch k {
			case "_type":
				if ts, ok := v.(string); ok {
					s.Type = ts
				}
			case "text":
				if str, ok := v.(string); ok {
					s.Text = &str
				} else {
					s.Raw[k] = v
				}
			case "marks":
				a, _ := v.([]any)
				marks := make([]string, 0, len(a))
				for _, it := range a {
					if ms, ok := it.(string); ok {
						marks = append(marks, ms)
					}
				}
				s.Marks = marks
			default:
				s.Raw[k] = v
			}
		}
		out = append(out, s)
	}
	return out
}

func markDefsFromValue(v any) []MarkDef {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]MarkDef, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var md MarkDef
		md.Raw = map[string]any{}
		for k, v := range obj {
			switch k {
			case "_type":
				md.Type, _ = v.(string)
			case "_key":
				md.Key, _ = v.(string)
			default:
				md.Raw[k] = v
			}
		}
		out = append(out, md)
	}
	return out
}

// decodeObjectUseNumber returns nil without error for items that are valid
// JSON but not objects.
func decodeObjectUseNumber(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}
