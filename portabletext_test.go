package portabletext

import (
	"encoding/json"
	"errors"
	"testing"
)

// ========================================
// Decode Tests
// ========================================

func TestDecodeString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantLen int
	}{
		{
			name:    "basic block",
			input:   `[{"_type":"block","children":[{"_type":"span","text":"Hello"}],"markDefs":[]}]`,
			wantLen: 1,
		},
		{
			name:    "empty document",
			input:   `[]`,
			wantLen: 0,
		},
		{
			name:    "null items skipped",
			input:   `[null,{"_type":"block","children":[]},null]`,
			wantLen: 1,
		},
		{
			name:    "missing _type tolerated",
			input:   `[{"children":[]}]`,
			wantLen: 1,
		},
		{
			name:    "invalid json",
			input:   `{not valid}`,
			wantErr: true,
		},
		{
			name:    "not an array",
			input:   `{"_type":"block"}`,
			wantErr: true,
		},
		{
			name:    "scalar items skipped",
			input:   `[{"_type":"block"}, 42, "junk", true, [1]]`,
			wantLen: 1,
		},
		{
			name:    "truncated array",
			input:   `[{"_type":"block"}, `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && len(doc) != tt.wantLen {
				t.Errorf("DecodeString() len = %d, want %d", len(doc), tt.wantLen)
			}
		})
	}
}

func TestDecodeSkipsNonObjects(t *testing.T) {
	doc, err := DecodeString(`[
		{"_type":"block","children":[{"_type":"span","text":"keep me"}]},
		"junk",
		1,
		{"_type":"divider"}
	]`)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("len = %d, want 2", len(doc))
	}
	if doc[0].GetText() != "keep me" || doc[1].Type != "divider" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestDecode(t *testing.T) {
	input := `[{"_type":"block","_key":"key1","style":"h2","children":[{"_type":"span","text":"Title","marks":["strong","l1"]}],"markDefs":[{"_type":"link","_key":"l1","href":"https://example.com"}],"listItem":"bullet","level":2}]`

	doc, err := DecodeString(input)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(doc))
	}

	node := doc[0]
	if node.Type != "block" {
		t.Errorf("Type = %s, want block", node.Type)
	}
	if node.Key != "key1" {
		t.Errorf("Key = %s, want key1", node.Key)
	}
	if node.GetStyle() != "h2" {
		t.Errorf("Style = %s, want h2", node.GetStyle())
	}
	if node.GetListItem() != "bullet" {
		t.Errorf("ListItem = %s, want bullet", node.GetListItem())
	}
	if node.GetListLevel() != 2 {
		t.Errorf("Level = %d, want 2", node.GetListLevel())
	}
	if len(node.Children) != 1 || len(node.Children[0].Marks) != 2 {
		t.Fatalf("Children = %+v", node.Children)
	}
	if len(node.MarkDefs) != 1 || node.MarkDefs[0].Raw["href"] != "https://example.com" {
		t.Fatalf("MarkDefs = %+v", node.MarkDefs)
	}
}

func TestDecodeLenientFields(t *testing.T) {
	input := `[{"_type":"block","level":"deep","children":[{"_type":"span","text":"hi","marks":["em",7,"code"]}],"markDefs":"nope"}]`

	doc, err := DecodeString(input)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}

	node := doc[0]
	if _, ok := node.Raw["level"]; !ok {
		t.Error("Invalid level should be in Raw")
	}
	if got := node.Children[0].Marks; len(got) != 2 || got[0] != "em" || got[1] != "code" {
		t.Errorf("Marks = %v, want [em code]", got)
	}
	if node.MarkDefs != nil {
		t.Errorf("MarkDefs = %v, want nil", node.MarkDefs)
	}
}

func TestDecodeCustomFields(t *testing.T) {
	input := `[{"_type":"image","assetRef":"image-abc-10x10-png","width":640,"featured":true}]`

	doc, err := DecodeString(input)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}

	node := doc[0]
	if node.Raw["assetRef"] != "image-abc-10x10-png" {
		t.Error("Custom string field not preserved")
	}
	if node.Raw["featured"] != true {
		t.Error("Custom bool field not preserved")
	}
	if n, ok := node.Raw["width"].(json.Number); !ok || n.String() != "640" {
		t.Errorf("width = %#v, want json.Number 640", node.Raw["width"])
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "object", input: `{"_type":"block"}`, wantErr: ErrUnexpectedToken},
		{name: "string", input: `"text"`, wantErr: ErrUnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeString(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var pErr *Error
			if !errors.As(err, &pErr) {
				t.Fatalf("error %T is not *Error", err)
			}
		})
	}
}

func TestDocumentFromValue(t *testing.T) {
	v := []any{
		map[string]any{"_type": "block", "children": []any{map[string]any{"_type": "span", "text": "nested"}}},
		"junk",
		map[string]any{"_type": "divider"},
	}

	doc, ok := DocumentFromValue(v)
	if !ok {
		t.Fatal("DocumentFromValue() ok = false")
	}
	if len(doc) != 2 {
		t.Fatalf("len = %d, want 2", len(doc))
	}
	if doc[0].GetText() != "nested" {
		t.Errorf("GetText() = %q", doc[0].GetText())
	}

	if _, ok := DocumentFromValue("a string"); ok {
		t.Error("DocumentFromValue(string) ok = true")
	}
}

// ========================================
// Node Methods Tests
// ========================================

func TestNodeMethods(t *testing.T) {
	node := NewBlock("h3").AddSpan("Hello")

	if !node.IsBlock() {
		t.Error("Node.IsBlock() should be true")
	}
	if node.GetStyle() != "h3" {
		t.Errorf("GetStyle() = %s, want h3", node.GetStyle())
	}
	if node.GetText() != "Hello" {
		t.Errorf("GetText() = %s, want Hello", node.GetText())
	}
	if node.GetListLevel() != 1 {
		t.Errorf("GetListLevel() = %d, want 1", node.GetListLevel())
	}
	if node.GetListItem() != "" {
		t.Errorf("GetListItem() = %q, want empty", node.GetListItem())
	}
}

func TestNodeGetStyleDefault(t *testing.T) {
	node := &Node{Type: "block"}
	if node.GetStyle() != "normal" {
		t.Errorf("GetStyle() with nil style = %s, want normal", node.GetStyle())
	}
}

func TestNodeGetTextWithNilText(t *testing.T) {
	node := &Node{
		Type: "block",
		Children: []Span{
			{Type: "span", Text: stringPtr("Hello")},
			{Type: "inlineIcon"},
			{Type: "span", Text: stringPtr("World")},
		},
	}

	if node.GetText() != "HelloWorld" {
		t.Errorf("GetText() = %s, want HelloWorld", node.GetText())
	}
}

func TestNodeIsBlockNil(t *testing.T) {
	var node *Node
	if node.IsBlock() {
		t.Error("IsBlock() on nil node should be false")
	}
}

func TestNodeStringField(t *testing.T) {
	style := "dashed"
	node := &Node{
		Type:  "divider",
		Style: &style,
		Raw: map[string]any{
			"title":   "   ",
			"heading": "Heads up",
			"count":   json.Number("3"),
		},
	}

	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"style", "variant"}, "dashed"},
		{[]string{"title", "heading", "label"}, "Heads up"},
		{[]string{"count"}, ""},
		{[]string{"missing"}, ""},
	}
	for _, tt := range tests {
		if got := node.StringField(tt.names...); got != tt.want {
			t.Errorf("StringField(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}

func TestNodeBuilders(t *testing.T) {
	node := NewBlock("normal").
		AddSpan("Read ", "strong").
		AddLink("l1", "/docs", "the docs", "em").
		SetListItem("number").
		Set("custom", "x")

	if len(node.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(node.Children))
	}
	link := node.Children[1]
	if !link.HasMark("em") || !link.HasMark("l1") {
		t.Errorf("link marks = %v", link.Marks)
	}
	if len(node.MarkDefs) != 1 || node.MarkDefs[0].Type != "link" || node.MarkDefs[0].Raw["href"] != "/docs" {
		t.Errorf("MarkDefs = %+v", node.MarkDefs)
	}
	if node.GetListItem() != "number" {
		t.Errorf("GetListItem() = %q", node.GetListItem())
	}
	if node.Raw["custom"] != "x" {
		t.Error("Set() did not store custom field")
	}
}

func TestNodeAddMarkDefNilRaw(t *testing.T) {
	node := NewBlock("normal")
	node.AddMarkDef("key1", "link", nil)

	if node.MarkDefs[0].Raw == nil {
		t.Error("Raw should be initialized even when nil is passed")
	}
}

func TestSpanHasMark(t *testing.T) {
	span := Span{Type: "span", Text: stringPtr("text"), Marks: []string{"strong", "em"}}

	if !span.HasMark("strong") {
		t.Error("HasMark(strong) should be true")
	}
	if span.HasMark("code") {
		t.Error("HasMark(code) should be false")
	}

	var empty Span
	if empty.HasMark("strong") {
		t.Error("HasMark on nil marks should be false")
	}
}

func TestNewNode(t *testing.T) {
	node := NewNode("callout")

	if node.Type != "callout" {
		t.Errorf("Type = %s, want callout", node.Type)
	}
	if node.Raw == nil {
		t.Error("Raw should be initialized")
	}
}

// ========================================
// Walk Tests
// ========================================

func TestWalk(t *testing.T) {
	doc := Document{
		*NewBlock("normal").AddSpan("First"),
		*NewBlock("normal").AddSpan("Second"),
		*NewNode("image"),
	}

	var visited []string
	err := Walk(doc, func(n *Node) error {
		visited = append(visited, n.Type)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(visited) != 3 || visited[2] != "image" {
		t.Errorf("visited = %v", visited)
	}
}

func TestWalkEarlyStop(t *testing.T) {
	doc := Document{
		*NewBlock("normal").AddSpan("First"),
		*NewBlock("normal").AddSpan("Second"),
	}

	stopErr := errors.New("stop")
	count := 0
	err := Walk(doc, func(n *Node) error {
		count++
		return stopErr
	})

	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if count != 1 {
		t.Errorf("Visited %d nodes, want 1", count)
	}
}

// ========================================
// Error Tests
// ========================================

func TestErrorUnwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	err := &Error{Op: "decode", Path: "[0]", Err: innerErr}

	if !errors.Is(err, innerErr) {
		t.Error("Error.Unwrap() not working with errors.Is()")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with path",
			err:      &Error{Op: "decode", Path: "[2]", Err: ErrUnexpectedToken},
			expected: "portabletext decode at [2]: unexpected JSON token",
		},
		{
			name:     "without path",
			err:      &Error{Op: "decode", Err: errors.New("test error")},
			expected: "portabletext decode: test error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Error.Error() = %s, want %s", tt.err.Error(), tt.expected)
			}
		})
	}
}

// ========================================
// Helper Functions
// ========================================

func stringPtr(s string) *string {
	return &s
}
