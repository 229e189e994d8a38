package parser

import (
	"regexp"
	"strings"

	"github.com/refdex/refdex/internal/doctree"
	"github.com/refdex/refdex/internal/index"
)

// dottedName matches a qualified API name such as "pygame.draw.line".
// Single-segment names stay ordinary section titles.
var dottedName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)+$`)

// outlineBuilder assembles a document tree from a flat stream of heading
// and body events. All format parsers feed it, so entity recognition and
// node shapes stay identical across markdown, HTML, DOCX and the rest.
//
// A heading whose title is a qualified dotted name (or that carries an
// explicit entity class) opens a documented entity: at the top level a
// module section with the module-scope ID prefix, nested a desc node
// wrapping a signature and a content container. Any other heading opens
// a plain section.
type outlineBuilder struct {
	doc   *doctree.Node
	stack []outlineEntry
}

type outlineEntry struct {
	container *doctree.Node // where body nodes are appended
	entity    *doctree.Node // the section or desc node itself
	level     int
	desctype  string
}

func newOutlineBuilder(source string) *outlineBuilder {
	doc := doctree.New(doctree.KindDocument)
	doc.SetAttr("source", source)
	b := &outlineBuilder{doc: doc}
	b.stack = []outlineEntry{{container: doc, entity: doc, level: 0}}
	return b
}

// Root returns the assembled document node.
func (b *outlineBuilder) Root() *doctree.Node {
	return b.doc
}

func (b *outlineBuilder) top() *outlineEntry {
	return &b.stack[len(b.stack)-1]
}

// Heading opens a new section or entity at the given level. Classes may
// carry an explicit entity type and extra classification tags.
func (b *outlineBuilder) Heading(level int, title string, classes []string) {
	for len(b.stack) > 1 && b.top().level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.top()

	name := strings.TrimSuffix(strings.TrimSpace(title), "()")
	desctype := explicitDesctype(classes)
	isEntity := desctype != "" || dottedName.MatchString(name)

	if isEntity && parent.entity.Kind != doctree.KindDocument {
		// Nested entity: a documentable desc node.
		if desctype == "" {
			desctype = inferDesctype(title, parent.desctype)
		}
		desc := doctree.New(doctree.KindDesc)
		desc.IDs = []string{name}
		desc.Classes = classes
		desc.SetAttr("desctype", desctype)
		desc.SetAttr("fullname", name)

		sig := doctree.New(doctree.KindSignature)
		sig.Text = strings.TrimSpace(title)
		desc.Append(sig)

		content := doctree.New(doctree.KindDescContent)
		desc.Append(content)

		parent.container.Append(desc)
		b.stack = append(b.stack, outlineEntry{container: content, entity: desc, level: level, desctype: desctype})
		return
	}

	section := doctree.New(doctree.KindSection)
	section.Names = []string{strings.TrimSpace(title)}
	section.Classes = classes
	if isEntity {
		// Top-level entity heading: a module-scope section.
		if desctype == "" {
			desctype = "module"
		}
		section.IDs = []string{index.ModuleIDPrefix + name}
		section.SetAttr("desctype", desctype)
		section.SetAttr("fullname", name)
	} else {
		section.IDs = []string{slugify(title)}
	}

	titleNode := doctree.New(doctree.KindTitle)
	titleNode.Text = strings.TrimSpace(title)
	section.Append(titleNode)

	parent.container.Append(section)
	b.stack = append(b.stack, outlineEntry{container: section, entity: section, level: level, desctype: desctype})
}

// Paragraph appends a body paragraph to the open container.
func (b *outlineBuilder) Paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	p := doctree.New(doctree.KindParagraph)
	p.Text = text
	b.top().container.Append(p)
}

// Summary appends an explicit summary line.
func (b *outlineBuilder) Summary(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	in := doctree.New(doctree.KindInline)
	in.Text = text
	in.Classes = []string{"summaryline"}
	b.top().container.Append(in)
}

// Literal appends an opaque code/literal block.
func (b *outlineBuilder) Literal(text string) {
	if text == "" {
		return
	}
	lb := doctree.New(doctree.KindLiteralBlock)
	lb.Text = text
	b.top().container.Append(lb)
}

// Comment appends an authoring comment; the indexer strips these before
// capture.
func (b *outlineBuilder) Comment(text string) {
	cn := doctree.New(doctree.KindComment)
	cn.Text = strings.TrimSpace(text)
	b.top().container.Append(cn)
}

// explicitDesctype returns the first class naming a documentable type.
func explicitDesctype(classes []string) string {
	for _, c := range classes {
		if index.IsDescType(c) {
			return c
		}
	}
	return ""
}

// inferDesctype guesses an entity type from its name when the document
// does not tag one. Trailing parentheses mean callable; a capitalized
// final segment means a type.
func inferDesctype(title, parentType string) string {
	name := strings.TrimSpace(title)
	callable := strings.HasSuffix(name, "()")
	name = strings.TrimSuffix(name, "()")
	segs := strings.Split(name, ".")
	base := segs[len(segs)-1]

	classLike := parentType == "class" || parentType == "exception" || parentType == "type"
	if callable {
		if classLike {
			return "method"
		}
		return "function"
	}
	if base != "" && base[0] >= 'A' && base[0] <= 'Z' {
		if strings.HasSuffix(base, "Error") || strings.HasSuffix(base, "Exception") {
			return "exception"
		}
		return "class"
	}
	if classLike {
		return "attribute"
	}
	return "data"
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
