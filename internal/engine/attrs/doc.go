// Package attrs stores display attributes for a text as a run-length encoded
// sequence of style descriptors.
//
// A RunStore covers the whole text: the sum of its run lengths always equals
// the text length, and adjacent runs never share a descriptor. It is patched
// in place as the text is edited:
//
//	store := attrs.New(cache)
//	store.AppendAttributes(plain, 5)
//	store.AppendAttributes(bold, 3)
//	store.AdjustLengthOfRun(5, 2, plain) // two characters typed at offset 5
//
// Before/after snapshots of a store are cheap (the run slice is shared
// copy-on-write), and RangeOfAttributeDifferences reports the smallest range a
// renderer has to redraw between two versions.
//
// A RunStore is not safe for concurrent use.
package attrs
