// Package syntax provides the syntax tree shared by the grammar and formatter layers.
//
// A tree is made of typed nodes. Each node knows its length in code units of the
// underlying text but never its position: absolute offsets are computed on demand
// by walking from a root and accumulating lengths. This lets a subtree produced by
// one parse be reused at a different position by the next one.
//
// Trees are built bottom-up with AppendChild, which keeps leaves merged:
//
//	root := syntax.NewNode("document", 0)
//	root.AppendChild(syntax.NewNode("text", 5))
//	root.AppendChild(syntax.NewNode("text", 3)) // merged into text(8)
//	root.Freeze()
//
// A frozen node and its subtree are immutable and may be referenced by any number
// of trees at once. Any attempt to change a frozen node panics.
//
// Lookups take an offset and return Anchored values, which pair a node with its
// absolute start offset for the duration of a single call:
//
//	leaf, err := root.LeafNode(6)
//	path, err := root.Path(6)
//
// Offsets outside the tree fail with ErrIndexOutOfRange rather than being clamped.
package syntax
