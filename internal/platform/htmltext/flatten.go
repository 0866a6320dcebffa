// Package htmltext turns scraped HTML into flat text for pattern matching.
package htmltext

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/bytebufferpool"
	xhtml "golang.org/x/net/html"
)

const droppedElements = "script, style, noscript, template, svg"

// Flatten removes non-content elements, joins every text node with a single space and
// collapses whitespace. Entities (named, decimal, hex) are decoded by the parser.
func Flatten(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapse(html.UnescapeString(stripTagsFallback(raw)))
	}
	doc.Find(droppedElements).Remove()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, node := range doc.Nodes {
		appendText(buf, node)
	}
	return collapse(buf.String())
}

func appendText(buf *bytebufferpool.ByteBuffer, root *xhtml.Node) {
	stack := []*xhtml.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Type == xhtml.TextNode {
			_, _ = buf.WriteString(node.Data)
			_ = buf.WriteByte(' ')
			continue
		}
		if node.Type == xhtml.CommentNode {
			continue
		}
		for child := node.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}
}

// DecodeEntities decodes named and numeric character references.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripTagsFallback is only reached when the tokenizer rejects the input outright.
func stripTagsFallback(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
