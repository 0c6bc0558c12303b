package tree

// Tree is a labeled n-ary node that owns an ordered list of child subtrees.
// Children are displayed in insertion order; the last one pushed is drawn
// with the "last" glyph.
//
// A Tree is append-only. Push is not safe for concurrent use on the same node,
// while rendering only reads and may run from several goroutines at once.
type Tree[L any] struct {
	label    L
	children []*Tree[L]
}

// Root returns a node with no children.
func Root[L any](label L) *Tree[L] {
	return &Tree[L]{label: label}
}

// New returns a node with the given children, kept in order.
func New[L any](label L, children ...*Tree[L]) *Tree[L] {
	t := &Tree[L]{label: label}
	for _, child := range children {
		t.Push(child)
	}
	return t
}

// Push appends child and returns t so calls can be chained.
// The parent takes ownership: a subtree must not be pushed twice.
func (t *Tree[L]) Push(child *Tree[L]) *Tree[L] {
	if child == nil {
		return t
	}
	t.children = append(t.children, child)
	return t
}

// Label returns the value stored at this node.
func (t *Tree[L]) Label() L {
	return t.label
}

// Children returns a copy of the child list.
func (t *Tree[L]) Children() []*Tree[L] {
	if len(t.children) == 0 {
		return nil
	}
	out := make([]*Tree[L], len(t.children))
	copy(out, t.children)
	return out
}

// Len returns the number of direct children.
func (t *Tree[L]) Len() int {
	return len(t.children)
}

// IsLeaf reports whether the node has no children.
func (t *Tree[L]) IsLeaf() bool {
	return len(t.children) == 0
}

// Size returns the number of nodes in the tree, the root included.
func (t *Tree[L]) Size() int {
	n := 1
	for _, child := range t.children {
		n += child.Size()
	}
	return n
}

// Height returns the length of the longest path from t to a leaf.
func (t *Tree[L]) Height() int {
	h := 0
	for _, child := range t.children {
		if ch := child.Height() + 1; ch > h {
			h = ch
		}
	}
	return h
}
