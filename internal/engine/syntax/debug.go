package syntax

import (
	"fmt"
	"io"
	"strings"
)

// CompactStructure renders the shape of the tree as an s-expression of node
// types. Leaves print as their bare type, inner nodes as "(type child ...)".
// The output contains no text and is stable, which makes it suitable for
// checking parser output in tests.
func (n *Node) CompactStructure() string {
	var b strings.Builder
	n.writeCompact(&b)
	return b.String()
}

func (n *Node) writeCompact(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(string(n.typ))
		return
	}
	b.WriteByte('(')
	b.WriteString(string(n.typ))
	for c := n.children.head; c != nil; c = c.next {
		b.WriteByte(' ')
		c.node.writeCompact(b)
	}
	b.WriteByte(')')
}

// Dump writes one line per node with its range, indented by depth.
func (n *Node) Dump(w io.Writer) error {
	var err error
	n.ForEachPath(func(path []Anchored) bool {
		a := path[len(path)-1]
		flag := ""
		if a.Node.frozen {
			flag = " frozen"
		}
		_, err = fmt.Fprintf(w, "%s%s [%d, %d)%s\n",
			strings.Repeat("  ", len(path)-1), a.Node.typ, a.Start, a.End(), flag)
		return err == nil
	})
	return err
}

// Validate checks that every inner node's length equals the sum of its
// children's lengths.
func (n *Node) Validate() error {
	return validate(n, 0)
}

func validate(n *Node, start int) error {
	if n.IsLeaf() {
		return nil
	}
	sum := 0
	for c := n.children.head; c != nil; c = c.next {
		if err := validate(c.node, start+sum); err != nil {
			return err
		}
		sum += c.node.length
	}
	if sum != n.length {
		return fmt.Errorf("%q at %d has length %d, children sum to %d: %w",
			n.typ, start, n.length, sum, ErrLengthMismatch)
	}
	return nil
}
