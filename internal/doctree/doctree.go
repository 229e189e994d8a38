package doctree

import "strings"

// Node kinds produced by the parsers and consumed by the indexer.
const (
	KindDocument     = "document"
	KindSection      = "section"
	KindTitle        = "title"
	KindDesc         = "desc"
	KindSignature    = "signature"
	KindDescContent  = "desc_content"
	KindParagraph    = "paragraph"
	KindLiteralBlock = "literal_block"
	KindInline       = "inline"
	KindComment      = "comment"
)

// Sep is the canonical separator used when joining a node's own text
// with its descendants' text. All text joining in this package uses it,
// so the indexer's substring dedup sees one consistent convention.
const Sep = "\n"

// Node is one node of a parsed document tree.
//
// IDs holds stable identifiers; when non-empty, IDs[0] is the canonical
// one. Classes are classification tags (e.g. "summaryline" on inline
// nodes). Attrs carries string attributes such as "desctype", "fullname"
// and "source". Text is the node's own text; descendant text is reached
// through FullText.
type Node struct {
	Kind     string
	Text     string
	IDs      []string
	Names    []string
	Classes  []string
	Attrs    map[string]string
	Children []*Node
	Parent   *Node
}

// New returns an empty node of the given kind.
func New(kind string) *Node {
	return &Node{Kind: kind}
}

// Append adds child to the end of n's child sequence and sets its parent.
func (n *Node) Append(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Detach removes n from its parent's child sequence. Detaching a root
// node is a no-op.
func (n *Node) Detach() {
	if n.Parent == nil {
		return
	}
	siblings := n.Parent.Children
	for i, c := range siblings {
		if c == n {
			n.Parent.Children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// ID returns the canonical identifier, or "" when the node carries none.
func (n *Node) ID() string {
	if len(n.IDs) == 0 {
		return ""
	}
	return n.IDs[0]
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// SetAttr sets an attribute, allocating the map on first use.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// HasClass reports whether the node carries the given classification tag.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// FullText returns the node's own text plus, transitively, all descendant
// text, joined with Sep in document order.
func (n *Node) FullText() string {
	var parts []string
	n.collectText(&parts)
	return strings.Join(parts, Sep)
}

func (n *Node) collectText(parts *[]string) {
	if n.Text != "" {
		*parts = append(*parts, n.Text)
	}
	for _, c := range n.Children {
		c.collectText(parts)
	}
}
