package syntax

import (
	"fmt"
	"iter"
	"maps"

	"github.com/google/uuid"
)

func init() {
	// Owner tokens are drawn on the append path; batch the reads from
	// crypto/rand.
	uuid.EnableRandPool()
}

// NodeType identifies what a node represents. The tree itself attaches no
// meaning to it; the grammar decides what a "header" or "list_item" is.
type NodeType string

// Node is a node in a syntax tree.
//
// A node stores its length but not its position. Leaves have no children.
// Inner nodes always have a length equal to the sum of their children.
type Node struct {
	typ      NodeType
	length   int
	children childList

	// props is allocated on first write.
	props map[any]any

	frozen   bool
	fragment bool

	// owner is the token of the tree under construction that created this
	// node. Only nodes carrying the parent's token may be resized in place.
	owner uuid.UUID
}

// NewNode creates a leaf of the given type and length.
func NewNode(t NodeType, length int) *Node {
	if length < 0 {
		panic(fmt.Sprintf("syntax: negative length %d for %q node", length, t))
	}
	return &Node{typ: t, length: length}
}

// NewFragment creates a fragment: a rootless sequence of nodes that is
// spliced into its parent by AppendChild instead of becoming a child itself.
func NewFragment(children ...*Node) *Node {
	f := &Node{typ: FragmentType, fragment: true}
	for _, c := range children {
		f.AppendChild(c)
	}
	return f
}

// FragmentType is the type reported by fragment nodes.
const FragmentType NodeType = "fragment"

// Type returns the node type.
func (n *Node) Type() NodeType {
	return n.typ
}

// Length returns the number of code units spanned by the node.
func (n *Node) Length() int {
	return n.length
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.children.len == 0
}

// IsFragment reports whether the node is a fragment.
func (n *Node) IsFragment() bool {
	return n.fragment
}

// Frozen reports whether the node can no longer change.
func (n *Node) Frozen() bool {
	return n.frozen
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return n.children.len
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	return n.children.front()
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	return n.children.back()
}

// Children iterates over the direct children in order.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for c := n.children.head; c != nil; c = c.next {
			if !yield(c.node) {
				return
			}
		}
	}
}

// AppendChild appends child to n and grows n by the child's length.
//
// Fragments are spliced: their children become children of n. A leaf that
// directly follows a leaf of the same type is merged into it, so the number
// of leaves tracks distinct token runs rather than parse steps. Merging never
// mutates a node that might be shared with another tree; such a node is
// replaced by a private copy first.
//
// AppendChild panics if n is frozen.
func (n *Node) AppendChild(child *Node) {
	n.mustBeMutable("append child")
	if child == nil {
		return
	}
	if child == n {
		panic(fmt.Sprintf("syntax: cannot append %q node to itself", n.typ))
	}
	if child.fragment {
		n.appendFragment(child)
		return
	}

	if last := n.children.back(); last != nil && mergeable(last, child) {
		n.growLastChild(child.length)
	} else {
		n.children.pushBack(child)
	}
	n.length += child.length
}

func (n *Node) appendFragment(f *Node) {
	if f.children.len == 0 {
		return
	}
	added := f.length

	var cells childList
	if f.frozen {
		// A frozen fragment may be referenced elsewhere; link its nodes
		// through new cells and leave it intact.
		cells = f.children.clone()
	} else {
		cells = f.children
		f.children = childList{}
		f.length = 0
	}

	if last := n.children.back(); last != nil && mergeable(last, cells.front()) {
		n.growLastChild(cells.popFront().length)
	}
	n.children.concat(&cells)
	n.length += added
}

// mergeable reports whether b can be folded into a preceding sibling a.
func mergeable(a, b *Node) bool {
	return a.IsLeaf() && b.IsLeaf() &&
		!a.fragment && !b.fragment &&
		a.typ == b.typ
}

// growLastChild adds delta to the length of the last child, copying the
// child first unless n owns it.
func (n *Node) growLastChild(delta int) {
	c := n.children.tail
	if !n.owns(c.node) {
		c.node = c.node.localCopy(n.ownerToken())
	}
	c.node.length += delta
}

// owns reports whether c was created for n's tree and can be resized in place.
func (n *Node) owns(c *Node) bool {
	return !c.frozen && n.owner != uuid.Nil && c.owner == n.owner
}

func (n *Node) ownerToken() uuid.UUID {
	if n.owner == uuid.Nil {
		n.owner = uuid.New()
	}
	return n.owner
}

// localCopy copies a leaf and stamps it with owner.
func (n *Node) localCopy(owner uuid.UUID) *Node {
	cp := &Node{
		typ:    n.typ,
		length: n.length,
		owner:  owner,
	}
	if n.props != nil {
		cp.props = maps.Clone(n.props)
	}
	return cp
}

// Freeze makes n and its whole subtree immutable. Already frozen subtrees
// are skipped, so freezing a tree built from reused parts only visits new
// nodes.
func (n *Node) Freeze() {
	if n.frozen {
		return
	}
	if debugChecks {
		if err := n.Validate(); err != nil {
			panic(err)
		}
	}
	n.freeze()
}

func (n *Node) freeze() {
	if n.frozen {
		return
	}
	n.frozen = true
	for c := n.children.head; c != nil; c = c.next {
		c.node.freeze()
	}
}

func (n *Node) mustBeMutable(op string) {
	if n.frozen {
		panic(fmt.Errorf("syntax: cannot %s on %q: %w", op, n.typ, ErrFrozen))
	}
}
