package html

import (
	"strings"

	"github.com/ejez/portabletext"
)

func table(out *strings.Builder, b portabletext.TableBlock) {
	rows := make([][]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return
	}

	out.WriteString(`<figure class="article-table-wrap"><div class="article-table-scroll"><table class="article-table">`)

	body := rows
	if len(rows) > 1 {
		out.WriteString("<thead><tr>")
		for _, cell := range rows[0] {
			out.WriteString(`<th scope="col">` + cellHTML(cell) + "</th>")
		}
		out.WriteString("</tr></thead>")
		body = rows[1:]
	}

	out.WriteString("<tbody>")
	for _, row := range body {
		out.WriteString("<tr>")
		for _, cell := range row {
			out.WriteString("<td>" + cellHTML(cell) + "</td>")
		}
		out.WriteString("</tr>")
	}
	out.WriteString("</tbody></table></div>")

	if b.Caption != "" {
		out.WriteString(`<figcaption class="article-table-caption">` + Escape(b.Caption) + "</figcaption>")
	}
	out.WriteString("</figure>")
}

func cellHTML(text string) string {
	if text == "" {
		return "&nbsp;"
	}
	return Escape(text)
}
