/*
Package portabletext decodes Portable Text documents delivered by the CMS and
exposes them as a closed set of typed blocks ready for rendering.

Portable Text is the JSON rich-text format used by Sanity: an ordered array of
blocks (paragraphs, headings, list items) and custom objects (images, tables,
callouts, dividers). This package keeps two views of a document:

  - Document / Node / Span / MarkDef: the decoded tree, with every field the
    package does not model preserved in Raw.
  - Block: a typed view produced by Document.Blocks, one of TextBlock,
    ImageBlock, DividerBlock, TableBlock, CalloutBlock or UnknownBlock.

The html subpackage renders []Block to an HTML fragment.

# Decoding

	doc, err := portabletext.DecodeString(`[{"_type":"block","children":[{"_type":"span","text":"Hola"}]}]`)
	if err != nil {
		log.Fatal(err)
	}

Decoding only fails when the input is not a well-formed JSON array. Items
that are not objects are skipped, and nodes without _type, non-string marks
and similar oddities are accepted: the renderer degrades per block instead
of rejecting a whole article.

	var pErr *portabletext.Error
	if errors.As(err, &pErr) {
		fmt.Printf("error at %s: %v\n", pErr.Path, pErr.Err)
	}

# Typed blocks

	for _, b := range doc.Blocks() {
		switch b := b.(type) {
		case portabletext.TextBlock:
			fmt.Println(b.Style, b.IsListItem())
		case portabletext.CalloutBlock:
			fmt.Println(b.Tone, len(b.Body))
		case portabletext.UnknownBlock:
			// skip
		}
	}

Mark names on spans resolve through TextBlock.ResolveMark: decorators
(strong, bold, b, em, code) map directly, any other name is looked up among
the block's mark definitions, where only links carry meaning.

Table cells are reduced to text during conversion (see CellText). Callout
bodies given as arrays are converted recursively.

# Building documents

	block := portabletext.NewBlock("normal").
		AddSpan("Hello ", "strong").
		AddLink("l1", "https://example.com", "world")
	doc := portabletext.Document{*block}

# Thread Safety

Documents and blocks are read-only once decoded and safe for concurrent reads.
*/
package portabletext
