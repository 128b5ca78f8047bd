// Package syntax defines the syntax tree consumed by the rule engine.
//
// The engine treats parsing as an external concern: any front end that
// produces this tree shape can drive the linter. The node contract mirrors
// the tree-sitter API the original toolchain was built on — kind labels,
// half-open byte ranges, parent/child/sibling navigation, and explicit
// error nodes for malformed regions.
package syntax

// Range is a half-open [Start, End) byte span into the source text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Intersects reports whether two ranges overlap.
// Zero-width ranges at the same offset intersect; a zero-width range
// strictly inside another range also intersects it.
func (r Range) Intersects(other Range) bool {
	if r.Start == other.Start {
		return true
	}
	return r.Start < other.End && other.Start < r.End
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Node is one vertex of the syntax tree.
type Node struct {
	kind     string
	rng      Range
	err      bool
	parent   *Node
	children []*Node
}

// NewNode creates a detached node. Front ends attach children with Append.
func NewNode(kind string, start, end int) *Node {
	return &Node{kind: kind, rng: Range{Start: start, End: end}}
}

// NewErrorNode creates a detached node flagged as a parse error.
func NewErrorNode(start, end int) *Node {
	return &Node{kind: "ERROR", rng: Range{Start: start, End: end}, err: true}
}

// Append attaches child as the last child of n.
func (n *Node) Append(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// SetEnd extends the node's range end. Front ends call this when closing
// block constructs whose extent is only known at the matching end statement.
func (n *Node) SetEnd(end int) {
	if end > n.rng.End {
		n.rng.End = end
	}
}

// Kind returns the node's kind label (e.g. "use_statement", "comment").
func (n *Node) Kind() string { return n.kind }

// Range returns the node's byte range.
func (n *Node) Range() Range { return n.rng }

// StartByte returns the node's starting byte offset.
func (n *Node) StartByte() int { return n.rng.Start }

// EndByte returns the offset just past the node's last byte.
func (n *Node) EndByte() int { return n.rng.End }

// IsError reports whether this node itself is a parse error.
func (n *Node) IsError() bool { return n.err }

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in source order.
// The returned slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// NextSibling returns the node immediately after n under the same parent,
// or nil if n is the last child or the root.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n && i+1 < len(n.parent.children) {
			return n.parent.children[i+1]
		}
	}
	return nil
}

// PrevSibling returns the node immediately before n under the same parent.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	var prev *Node
	for _, c := range n.parent.children {
		if c == n {
			return prev
		}
		prev = c
	}
	return nil
}

// Text returns the source bytes covered by the node, as a string.
// Out-of-bounds ranges yield an empty string.
func (n *Node) Text(source []byte) string {
	if n.rng.Start < 0 || n.rng.End > len(source) || n.rng.Start > n.rng.End {
		return ""
	}
	return string(source[n.rng.Start:n.rng.End])
}

// ChildrenOfKind returns all direct children with the given kind.
func (n *Node) ChildrenOfKind(kind string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first direct child with the given kind,
// or nil.
func (n *Node) FirstChildOfKind(kind string) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// Ancestors iterates from the node's parent up to the root.
func (n *Node) Ancestors(visit func(*Node) bool) {
	for p := n.parent; p != nil; p = p.parent {
		if !visit(p) {
			return
		}
	}
}

// Tree is a parsed file.
type Tree struct {
	root *Node
}

// NewTree wraps a root node.
func NewTree(root *Node) *Tree {
	return &Tree{root: root}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// HasErrors reports whether any node in the tree is a parse error.
func (t *Tree) HasErrors() bool {
	found := false
	Walk(t.root, func(n *Node) {
		if n.err {
			found = true
		}
	})
	return found
}

// Walk visits root and every descendant in depth-first pre-order.
//
// The traversal is iterative with an explicit stack so that pathologically
// deep trees cannot exhaust the goroutine stack.
func Walk(root *Node, visit func(*Node)) {
	if root == nil {
		return
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		// Push children in reverse so they pop in source order.
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Covering returns the innermost node whose range contains r, or the root
// itself when no child covers it. Used to resolve the enclosing construct
// for block-scoped suppressions.
func Covering(root *Node, r Range) *Node {
	if root == nil {
		return nil
	}
	cur := root
	for {
		var next *Node
		for _, c := range cur.children {
			if c.rng.Start <= r.Start && r.End <= c.rng.End {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}
