package syntax

import "fmt"

// Anchored pairs a node with its absolute start offset. It is only valid for
// the tree it was computed from and is never stored on the node.
type Anchored struct {
	Node  *Node
	Start int
}

// End returns the offset just past the node.
func (a Anchored) End() int {
	return a.Start + a.Node.length
}

// Contains reports whether offset lies in [Start, End).
func (a Anchored) Contains(offset int) bool {
	return offset >= a.Start && offset < a.End()
}

// Type returns the type of the anchored node.
func (a Anchored) Type() NodeType {
	return a.Node.typ
}

// childContaining returns the child of a that covers offset.
func (a Anchored) childContaining(offset int) (Anchored, bool) {
	start := a.Start
	for c := a.Node.children.head; c != nil; c = c.next {
		end := start + c.node.length
		if offset >= start && offset < end {
			return Anchored{Node: c.node, Start: start}, true
		}
		start = end
	}
	return Anchored{}, false
}

func (n *Node) checkOffset(offset int) error {
	if offset < 0 || offset >= n.length {
		return fmt.Errorf("offset %d in %q of length %d: %w", offset, n.typ, n.length, ErrIndexOutOfRange)
	}
	return nil
}

// LeafNode returns the leaf covering offset, anchored relative to n.
func (n *Node) LeafNode(offset int) (Anchored, error) {
	if err := n.checkOffset(offset); err != nil {
		return Anchored{}, err
	}
	cur := Anchored{Node: n}
	for !cur.Node.IsLeaf() {
		next, ok := cur.childContaining(offset)
		if !ok {
			return Anchored{}, fmt.Errorf("offset %d not covered by children of %q at %d: %w",
				offset, cur.Node.typ, cur.Start, ErrIndexOutOfRange)
		}
		cur = next
	}
	return cur, nil
}

// Path returns the chain of nodes from n down to the leaf covering offset.
// The first element is n itself.
func (n *Node) Path(offset int) ([]Anchored, error) {
	if err := n.checkOffset(offset); err != nil {
		return nil, err
	}
	cur := Anchored{Node: n}
	path := []Anchored{cur}
	for !cur.Node.IsLeaf() {
		next, ok := cur.childContaining(offset)
		if !ok {
			return nil, fmt.Errorf("offset %d not covered by children of %q at %d: %w",
				offset, cur.Node.typ, cur.Start, ErrIndexOutOfRange)
		}
		cur = next
		path = append(path, cur)
	}
	return path, nil
}

// ForEach visits n and its descendants in pre-order. Returning false from fn
// stops the walk. ForEach reports whether every node was visited.
func (n *Node) ForEach(fn func(Anchored) bool) bool {
	return forEach(Anchored{Node: n}, fn)
}

func forEach(a Anchored, fn func(Anchored) bool) bool {
	if !fn(a) {
		return false
	}
	start := a.Start
	for c := a.Node.children.head; c != nil; c = c.next {
		if !forEach(Anchored{Node: c.node, Start: start}, fn) {
			return false
		}
		start += c.node.length
	}
	return true
}

// ForEachPath is like ForEach but passes the chain from n to the visited
// node. The slice is reused between calls; copy it to keep it.
func (n *Node) ForEachPath(fn func(path []Anchored) bool) bool {
	path := make([]Anchored, 0, 16)
	return forEachPath(path, Anchored{Node: n}, fn)
}

func forEachPath(path []Anchored, a Anchored, fn func([]Anchored) bool) bool {
	path = append(path, a)
	if !fn(path) {
		return false
	}
	start := a.Start
	for c := a.Node.children.head; c != nil; c = c.next {
		if !forEachPath(path, Anchored{Node: c.node, Start: start}, fn) {
			return false
		}
		start += c.node.length
	}
	return true
}

// FindNodes returns every node, in pre-order, for which pred is true.
func (n *Node) FindNodes(pred func(*Node) bool) []Anchored {
	var out []Anchored
	n.ForEach(func(a Anchored) bool {
		if pred(a.Node) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// First returns the first node in pre-order for which pred is true.
func (n *Node) First(pred func(*Node) bool) (Anchored, bool) {
	var found Anchored
	var ok bool
	n.ForEach(func(a Anchored) bool {
		if pred(a.Node) {
			found, ok = a, true
			return false
		}
		return true
	})
	return found, ok
}

// OfType returns a predicate matching nodes of type t.
func OfType(t NodeType) func(*Node) bool {
	return func(n *Node) bool { return n.typ == t }
}
