package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/refdex/refdex/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles markdown reference documents using goldmark.
//
// Headings drive the document outline. A heading whose text is a dotted
// API name opens a documented entity; heading attributes may pin the
// entity type explicitly, e.g.
//
//	## pygame.cursors.Cursor.type {.property}
//
// An emphasis-only paragraph directly under an entity heading becomes
// its summary line, and HTML comments become comment nodes that the
// indexer strips.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithParserOptions(gparser.WithAttribute()))
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	b := newOutlineBuilder(filename)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.Heading(node.Level, string(node.Text(src)), headingClasses(node))

		case *ast.Paragraph:
			if em, ok := emphasisOnly(node); ok {
				b.Summary(inlineText(em, src))
				continue
			}
			b.Paragraph(inlineText(node, src))

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			b.Literal(blockLines(n, src))

		case *ast.HTMLBlock:
			raw := blockLines(n, src)
			if comment, ok := htmlComment(raw); ok {
				b.Comment(comment)
			}

		default:
			// Lists, blockquotes and other containers contribute their
			// flattened text.
			if t := inlineText(n, src); t != "" {
				b.Paragraph(t)
			}
		}
	}

	return b.Root(), nil
}

// headingClasses returns the classes from a heading attribute list,
// e.g. "## name {.method}".
func headingClasses(n *ast.Heading) []string {
	attr, ok := n.Attribute([]byte("class"))
	if !ok {
		return nil
	}
	switch v := attr.(type) {
	case []byte:
		return strings.Fields(string(v))
	case string:
		return strings.Fields(v)
	}
	return nil
}

// emphasisOnly reports whether a paragraph consists of a single
// emphasis span, the authoring convention for summary lines.
func emphasisOnly(p *ast.Paragraph) (ast.Node, bool) {
	child := p.FirstChild()
	if child == nil || child != p.LastChild() {
		return nil, false
	}
	if _, ok := child.(*ast.Emphasis); !ok {
		return nil, false
	}
	return child, true
}

// htmlComment extracts the body of an HTML comment block.
func htmlComment(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "<!--") {
		return "", false
	}
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	return strings.TrimSpace(raw), true
}

// inlineText flattens the inline text of a node and its descendants.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
				continue
			}
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// blockLines returns the raw source lines of a block node.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
