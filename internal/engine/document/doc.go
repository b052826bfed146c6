// Package document keeps a syntax tree and its run store aligned with a
// text that the caller owns.
//
// The caller reports every edit with ReplaceCharacters, passing the new
// text together with the edited range and the change in length. The model
// patches the old run store so that it lines up with the new text, parses
// and formats again, and compares the two stores. Handlers registered with
// OnChange learn the edited range and the smallest range whose styles
// actually changed, which is all a view needs to redraw.
//
//	m := document.New(grammar, format.New(format.DefaultTheme(), nil))
//	if err := m.Load(text); err != nil {
//		return err
//	}
//	m.OnChange(func(c document.Change) {
//		view.Invalidate(c.Edited.Union(c.ChangedAttributes))
//	})
package document
