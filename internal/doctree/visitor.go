package doctree

import "errors"

// SkipSubtree is returned by an Enter hook to prune traversal: the
// node's children are not visited and its Exit hook does not fire.
// It is a control signal, not an error; Walk never surfaces it.
var SkipSubtree = errors.New("doctree: skip subtree")

// Handler holds the enter/exit hooks for one node kind. Either hook
// may be nil.
type Handler struct {
	Enter func(*Node) error
	Exit  func(*Node) error
}

// Handlers is an explicit dispatch table from node kind to handler.
// Kinds without an entry are traversed without callbacks.
type Handlers map[string]Handler

// Walk traverses the tree rooted at n depth-first, pre-order, visiting
// children in stored order. Enter fires before descending; Exit after
// the children have been visited. Any error other than SkipSubtree
// aborts the walk and is returned.
//
// Enter hooks may detach nodes: the child sequence is snapshotted
// before descending, so removal during traversal is safe.
func Walk(n *Node, h Handlers) error {
	hd := h[n.Kind]
	if hd.Enter != nil {
		switch err := hd.Enter(n); {
		case errors.Is(err, SkipSubtree):
			return nil
		case err != nil:
			return err
		}
	}
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		if err := Walk(c, h); err != nil {
			return err
		}
	}
	if hd.Exit != nil {
		return hd.Exit(n)
	}
	return nil
}

// StripComments detaches every comment node from the tree. It runs as a
// separate pass before indexing so authoring annotations never reach the
// capture stacks.
func StripComments(root *Node) {
	// The comment handler cannot fail, so the walk error is always nil.
	_ = Walk(root, Handlers{
		KindComment: {Enter: func(n *Node) error {
			n.Detach()
			return SkipSubtree
		}},
	})
}
