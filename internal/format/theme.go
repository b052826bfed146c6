// Package format turns a frozen syntax tree into a run store by looking up
// a style for every node type along each leaf's path.
package format

import (
	"maps"

	"github.com/dshills/markupcore/internal/engine/syntax"
	"github.com/dshills/markupcore/internal/renderer/core"
)

// Node types understood by DefaultTheme. Grammars are free to use others.
const (
	TypeDocument  syntax.NodeType = "document"
	TypeHeader    syntax.NodeType = "header"
	TypeParagraph syntax.NodeType = "paragraph"
	TypeEmphasis  syntax.NodeType = "emphasis"
	TypeStrong    syntax.NodeType = "strong"
	TypeCode      syntax.NodeType = "code"
	TypeQuote     syntax.NodeType = "quote"
	TypeLink      syntax.NodeType = "link"
	TypeListItem  syntax.NodeType = "list-item"
	TypeDelimiter syntax.NodeType = "delimiter"
	TypeText      syntax.NodeType = "text"
)

// StyleProperty overrides the theme for a single node. It is merged after
// the node's type style.
var StyleProperty = syntax.NewKey[core.Style]("style")

// Theme maps node types to styles.
type Theme struct {
	// Default is the style every leaf starts from.
	Default core.Style

	// Styles holds per-type styles, merged onto Default from the root down.
	Styles map[syntax.NodeType]core.Style
}

// NewTheme creates an empty theme with the given default style.
func NewTheme(def core.Style) Theme {
	return Theme{Default: def, Styles: make(map[syntax.NodeType]core.Style)}
}

// DefaultTheme returns a small markup theme.
func DefaultTheme() Theme {
	t := NewTheme(core.DefaultStyle())
	t.Styles[TypeHeader] = core.NewStyle(core.ColorFromRGB(97, 175, 239)).Bold().
		WithParagraph(core.Paragraph{SpacingBefore: 1})
	t.Styles[TypeEmphasis] = core.DefaultStyle().Italic()
	t.Styles[TypeStrong] = core.DefaultStyle().Bold()
	t.Styles[TypeCode] = core.NewStyle(core.ColorFromRGB(152, 195, 121)).
		WithFont(core.Font{Family: "monospace"})
	t.Styles[TypeQuote] = core.NewStyle(core.ColorGray).Italic().
		WithParagraph(core.Paragraph{Indent: 2})
	t.Styles[TypeLink] = core.NewStyle(core.ColorBlue).Underline()
	t.Styles[TypeListItem] = core.DefaultStyle().
		WithParagraph(core.Paragraph{Indent: 2, FirstLineIndent: -2})
	t.Styles[TypeDelimiter] = core.DefaultStyle().Dim()
	return t
}

// Style returns the style registered for nt.
func (t Theme) Style(nt syntax.NodeType) (core.Style, bool) {
	s, ok := t.Styles[nt]
	return s, ok
}

// With returns a copy of t with nt styled as s.
func (t Theme) With(nt syntax.NodeType, s core.Style) Theme {
	cp := Theme{Default: t.Default, Styles: maps.Clone(t.Styles)}
	if cp.Styles == nil {
		cp.Styles = make(map[syntax.NodeType]core.Style, 1)
	}
	cp.Styles[nt] = s
	return cp
}

// Resolve merges the styles along path, outermost first.
func (t Theme) Resolve(path []syntax.Anchored) core.Style {
	s := t.Default
	for _, a := range path {
		if ts, ok := t.Styles[a.Type()]; ok {
			s = s.Merge(ts)
		}
		if ps, ok := syntax.Property(a.Node, StyleProperty); ok {
			s = s.Merge(ps)
		}
	}
	return s
}
