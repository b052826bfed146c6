package syntax

// Key is a typed property key. Each call to NewKey returns a distinct key,
// so two grammars can use the same name without colliding.
type Key[T any] struct {
	name string
}

// NewKey creates a property key for values of type T.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

// String returns the key name.
func (k *Key[T]) String() string {
	return k.name
}

// SetProperty stores v under k on n. Properties are annotations and may be
// set on frozen nodes.
func SetProperty[T any](n *Node, k *Key[T], v T) {
	if n.props == nil {
		n.props = make(map[any]any, 1)
	}
	n.props[k] = v
}

// Property returns the value stored under k on n.
func Property[T any](n *Node, k *Key[T]) (T, bool) {
	v, ok := n.props[k]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// HasProperty reports whether n has a value for k.
func HasProperty[T any](n *Node, k *Key[T]) bool {
	_, ok := n.props[k]
	return ok
}

// DeleteProperty removes k from n.
func DeleteProperty[T any](n *Node, k *Key[T]) {
	delete(n.props, k)
}
