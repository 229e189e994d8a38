package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/refdex/refdex/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles rendered HTML reference pages. Headings h1..h6 map
// to the same outline events the markdown parser produces; the class
// attribute on a heading may pin the entity type.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := newOutlineBuilder(filename)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.CommentNode:
			b.Comment(n.Data)
			return
		case html.ElementNode:
			if level := headingLevel(n.Data); level > 0 {
				b.Heading(level, textContent(n), strings.Fields(attrValue(n, "class")))
				return // heading text already extracted
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "pre":
				b.Literal(textContent(n))
				return
			case "em", "i":
				if attrValue(n, "class") == "summaryline" {
					b.Summary(textContent(n))
					return
				}
			case "p", "li", "td", "blockquote":
				if em := soleEmphasisChild(n); em != nil {
					b.Summary(textContent(em))
				} else {
					b.Paragraph(textContent(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return b.Root(), nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// soleEmphasisChild returns the single em/i element a paragraph wraps,
// the summary-line convention shared with the markdown parser.
func soleEmphasisChild(n *html.Node) *html.Node {
	var em *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
			continue
		case c.Type == html.ElementNode && (c.Data == "em" || c.Data == "i") && em == nil:
			em = c
		default:
			return nil
		}
	}
	return em
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
