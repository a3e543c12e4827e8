// Package tree holds the partial proof tree and its line-oriented text form.
package tree

// Test index markers for nodes that carry no certifying test.
const (
	Unresolved = -1
	Hole       = -2
)

// Node is one box of the proof tree. A node with children is internal; a
// childless node is a leaf when Test >= 0, a hole when Test == Hole, and
// unresolved otherwise.
type Node struct {
	Test  int
	Left  *Node
	Right *Node

	// numeric is set when the leaf was read as a test index rather than a
	// word, so that it is written back the same way while unchanged.
	numeric bool
	readAs  int
}

// NewLeaf returns a leaf certified by test i.
func NewLeaf(i int) *Node {
	return &Node{Test: i}
}

// NewHole returns a hole.
func NewHole() *Node {
	return &Node{Test: Hole}
}

// NewUnresolved returns a fresh node with no test and no children.
func NewUnresolved() *Node {
	return &Node{Test: Unresolved}
}

// NewInternal returns a node split into left and right.
func NewInternal(left, right *Node) *Node {
	return &Node{Test: Unresolved, Left: left, Right: right}
}

// HasChildren reports whether n has been split.
func (n *Node) HasChildren() bool {
	return n.Left != nil
}

// IsLeaf reports whether n is certified by a test.
func (n *Node) IsLeaf() bool {
	return !n.HasChildren() && n.Test >= 0
}

// IsHole reports whether n is an accepted gap.
func (n *Node) IsHole() bool {
	return !n.HasChildren() && n.Test == Hole
}

// SetLeaf marks n as eliminated by test i. Children, if any, are dropped.
func (n *Node) SetLeaf(i int) {
	n.Test = i
	n.numeric = n.numeric && n.readAs == i
	n.Left, n.Right = nil, nil
}

// Split gives n two unresolved children.
func (n *Node) Split() {
	n.Test = Unresolved
	n.Left = NewUnresolved()
	n.Right = NewUnresolved()
}

// MakeHole turns n into a childless hole.
func (n *Node) MakeHole() {
	n.Test = Hole
	n.Left, n.Right = nil, nil
}

// Truncate discards the subtree below n, leaving a hole.
func (n *Node) Truncate() {
	n.MakeHole()
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Size() + n.Right.Size()
}

// Counts tallies the node kinds in a subtree.
type Counts struct {
	Internal   int
	Leaves     int
	Holes      int
	Unresolved int
}

// Count walks the subtree rooted at n.
func (n *Node) Count() Counts {
	var c Counts
	n.walk(func(m *Node) {
		switch {
		case m.HasChildren():
			c.Internal++
		case m.Test >= 0:
			c.Leaves++
		case m.Test == Hole:
			c.Holes++
		default:
			c.Unresolved++
		}
	})
	return c
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	n.Left.walk(fn)
	n.Right.walk(fn)
}
