package format

import (
	"fmt"

	"github.com/dshills/markupcore/internal/engine/attrs"
	"github.com/dshills/markupcore/internal/engine/syntax"
	"github.com/dshills/markupcore/internal/renderer/core"
	"github.com/dshills/markupcore/internal/renderer/style"
)

// Formatter builds run stores from syntax trees.
type Formatter struct {
	theme Theme
	cache *style.Cache
}

// New creates a formatter. Stores it builds share cache; a nil cache gets a
// private one.
func New(theme Theme, cache *style.Cache) *Formatter {
	if cache == nil {
		cache = style.NewCache(nil)
	}
	return &Formatter{theme: theme, cache: cache}
}

// Theme returns the current theme.
func (f *Formatter) Theme() Theme {
	return f.theme
}

// SetTheme replaces the theme used by later calls to Format.
func (f *Formatter) SetTheme(t Theme) {
	f.theme = t
}

// Cache returns the style cache attached to formatted stores.
func (f *Formatter) Cache() *style.Cache {
	return f.cache
}

// Format returns a store with one run per leaf of root, merged with its
// neighbours where styles agree. A nil root formats to an empty store.
func (f *Formatter) Format(root *syntax.Node) (*attrs.RunStore, error) {
	store := attrs.New(f.cache)
	if root == nil {
		return store, nil
	}

	root.ForEachPath(func(path []syntax.Anchored) bool {
		leaf := path[len(path)-1]
		if !leaf.Node.IsLeaf() || leaf.Node.Length() == 0 {
			return true
		}
		store.AppendAttributes(f.theme.Resolve(path), leaf.Node.Length())
		return true
	})

	if store.Count() != root.Length() {
		return nil, fmt.Errorf("format %q: store covers %d of %d: %w",
			root.Type(), store.Count(), root.Length(), attrs.ErrLengthMismatch)
	}
	return store, nil
}

// Reformat formats root and compares the result with old, an earlier store
// for a text of the same length. changed is false when the styles are
// identical.
func (f *Formatter) Reformat(old *attrs.RunStore, root *syntax.Node) (store *attrs.RunStore, diff core.Range, changed bool, err error) {
	store, err = f.Format(root)
	if err != nil {
		return nil, core.Range{}, false, err
	}
	diff, changed, err = old.RangeOfAttributeDifferences(store)
	if err != nil {
		return nil, core.Range{}, false, fmt.Errorf("reformat: %w", err)
	}
	return store, diff, changed, nil
}
