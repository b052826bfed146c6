package syntax

// cell is one link of a childList.
type cell struct {
	node       *Node
	prev, next *cell
}

// childList is a doubly linked list of nodes. Two lists concatenate in O(1),
// which keeps fragment splicing cheap no matter how many splices came before.
type childList struct {
	head, tail *cell
	len        int
}

// front returns the first node or nil.
func (l *childList) front() *Node {
	if l.head == nil {
		return nil
	}
	return l.head.node
}

// back returns the last node or nil.
func (l *childList) back() *Node {
	if l.tail == nil {
		return nil
	}
	return l.tail.node
}

// pushBack appends n.
func (l *childList) pushBack(n *Node) {
	c := &cell{node: n, prev: l.tail}
	if l.tail == nil {
		l.head = c
	} else {
		l.tail.next = c
	}
	l.tail = c
	l.len++
}

// popFront removes and returns the first node.
func (l *childList) popFront() *Node {
	c := l.head
	if c == nil {
		return nil
	}
	l.head = c.next
	if l.head == nil {
		l.tail = nil
	} else {
		l.head.prev = nil
	}
	l.len--
	c.next = nil
	return c.node
}

// concat moves every cell of other onto the end of l and empties other.
func (l *childList) concat(other *childList) {
	if other.head == nil {
		return
	}
	if l.tail == nil {
		l.head = other.head
	} else {
		l.tail.next = other.head
		other.head.prev = l.tail
	}
	l.tail = other.tail
	l.len += other.len
	*other = childList{}
}

// clone returns a list with fresh cells referring to the same nodes.
func (l *childList) clone() childList {
	var out childList
	for c := l.head; c != nil; c = c.next {
		out.pushBack(c.node)
	}
	return out
}
