package index

import (
	"strings"

	"github.com/refdex/refdex/internal/doctree"
)

// frame accumulates state for one open indexed node during traversal.
// Its lifetime is bounded by the node's enter and exit.
type frame struct {
	text     string
	children []string
	summary  string
}

// Collector walks one document tree and writes the entities it finds
// into a registry. A Collector value is good for a single document;
// the frame stack is carried on the value, never in package state, so
// documents could be collected reentrantly if a driver ever wanted to.
type Collector struct {
	reg   *Registry
	doc   string
	stack []frame
}

// Collect strips authoring comments from root and indexes the document's
// entities into reg under the owning document name doc. The caller must
// purge doc from the registry first when reprocessing.
func Collect(reg *Registry, doc string, root *doctree.Node) error {
	doctree.StripComments(root)
	c := &Collector{reg: reg, doc: doc}
	return doctree.Walk(root, doctree.Handlers{
		doctree.KindSection:     {Enter: c.enterSection, Exit: c.exitSection},
		doctree.KindDesc:        {Enter: c.enterDesc, Exit: c.exitDesc},
		doctree.KindInline:      {Enter: c.visitInline},
		doctree.KindDescContent: {Exit: c.exitDescContent},
	})
}

// push opens a frame for node n. When a parent frame is open, n's full
// text is removed from it first: the child produces its own entry, so
// the parent's captured docs must not repeat the child's text verbatim.
// The removed substring is the separator-joined child text; when the
// doubled-separator form is present one trailing separator goes with it.
func (c *Collector) push(n *doctree.Node) {
	full := n.FullText()
	if len(c.stack) > 0 {
		parent := &c.stack[len(c.stack)-1]
		toRemove := doctree.Sep + full
		if strings.Contains(parent.text, toRemove+doctree.Sep) {
			toRemove += doctree.Sep
		}
		parent.text = strings.ReplaceAll(parent.text, toRemove, "")
	}
	c.stack = append(c.stack, frame{text: full})
}

func (c *Collector) pop() frame {
	f := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return f
}

func (c *Collector) top() *frame {
	if len(c.stack) == 0 {
		return nil
	}
	return &c.stack[len(c.stack)-1]
}

func (c *Collector) enterSection(n *doctree.Node) error {
	// Sections without names or anchors are non-API prose; skip them
	// silently rather than failing the document.
	if len(n.Names) == 0 || n.ID() == "" {
		return doctree.SkipSubtree
	}
	c.push(n)
	return nil
}

func (c *Collector) enterDesc(n *doctree.Node) error {
	if !IsDescType(n.Attr("desctype")) || n.ID() == "" {
		return doctree.SkipSubtree
	}
	c.push(n)
	return nil
}

// visitInline records a summary line. The first one wins.
func (c *Collector) visitInline(n *doctree.Node) error {
	if !n.HasClass("summaryline") {
		return nil
	}
	if f := c.top(); f != nil && f.summary == "" {
		f.summary = n.FullText()
	}
	return nil
}

// exitDescContent falls back to the first line of the body when no
// explicit summary line was given.
func (c *Collector) exitDescContent(n *doctree.Node) error {
	if f := c.top(); f != nil && f.summary == "" {
		f.summary, _, _ = strings.Cut(n.FullText(), "\n")
	}
	return nil
}

func (c *Collector) exitSection(n *doctree.Node) error {
	if len(n.Children) == 0 {
		// Empty section: nothing to register, but the frame opened on
		// enter still has to come off so the stack stays balanced.
		c.pop()
		return nil
	}
	if strings.HasPrefix(n.ID(), ModuleIDPrefix) {
		f := c.pop()
		kind := n.Attr("desctype")
		if kind == "" {
			kind = "module"
		}
		e := Entry{
			FullName: fullname(n),
			Kind:     kind,
			RefID:    strings.TrimPrefix(n.ID(), ModuleIDPrefix),
			Doc:      c.doc,
			FullDocs: strings.TrimSpace(f.text),
			Children: f.children,
			Summary:  f.summary,
		}
		c.register(e)
		c.reg.AddSection(Section{Doc: c.doc, FullName: e.FullName, RefID: e.RefID})
		return nil
	}
	f := c.pop()
	if len(f.children) == 0 {
		return nil
	}
	// No section-level introduction: promote the first top-level entity
	// so the section's identifier resolves to its leading content.
	first, err := c.reg.Get(f.children[0])
	if err != nil {
		return err
	}
	e := first
	e.RefID = n.ID()
	c.register(e)
	c.reg.AddSection(Section{Doc: c.doc, FullName: first.FullName, RefID: e.RefID})
	return nil
}

func (c *Collector) exitDesc(n *doctree.Node) error {
	f := c.pop()
	e := Entry{
		FullName: fullname(n),
		Kind:     n.Attr("desctype"),
		RefID:    strings.TrimPrefix(n.ID(), ModuleIDPrefix),
		Doc:      c.doc,
		FullDocs: strings.TrimSpace(f.text),
		Children: f.children,
		Summary:  f.summary,
	}
	c.register(e)
	return nil
}

// register stores e under its identifier and links it into the parent
// frame's child list when one is open.
func (c *Collector) register(e Entry) {
	c.reg.Put(e.RefID, e)
	if f := c.top(); f != nil {
		f.children = append(f.children, e.RefID)
	}
}

func fullname(n *doctree.Node) string {
	if fn := n.Attr("fullname"); fn != "" {
		return fn
	}
	if len(n.Names) > 0 {
		return n.Names[0]
	}
	return n.ID()
}
