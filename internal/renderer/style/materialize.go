package style

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markupcore/internal/renderer/core"
)

// Default font parameters used when neither the base style nor the
// descriptor names one.
const (
	DefaultFontFamily = "monospace"
	DefaultFontSize   = 12
)

// dimBlend is how far a dim foreground is pulled toward the background.
const dimBlend = 0.45

// Attributes are the realized form of a descriptor.
type Attributes struct {
	// Style is the descriptor after it was merged onto the base style.
	Style core.Style

	// Cell is the terminal style used to draw the run.
	Cell tcell.Style

	// Font is fully resolved; neither field is zero.
	Font core.Font

	// Layout holds absolute paragraph indents.
	Layout Layout
}

// Layout is the realized paragraph layout of a run.
type Layout struct {
	HeadIndent          int
	FirstLineHeadIndent int
	SpacingBefore       int
}

// Materializer realizes descriptors.
type Materializer interface {
	Materialize(desc core.Style) Attributes
}

// MaterializerFunc adapts a function to Materializer.
type MaterializerFunc func(desc core.Style) Attributes

// Materialize calls f(desc).
func (f MaterializerFunc) Materialize(desc core.Style) Attributes {
	return f(desc)
}

// MergeMode determines how a descriptor is applied to the base style.
type MergeMode uint8

const (
	// MergeOverlay overlays onto the base (preserves base colors the
	// descriptor leaves at default).
	MergeOverlay MergeMode = iota

	// MergeReplace ignores the base style.
	MergeReplace

	// MergeAttributes only adds attributes, preserves colors and fonts.
	MergeAttributes
)

// String returns the merge mode name.
func (m MergeMode) String() string {
	switch m {
	case MergeOverlay:
		return "overlay"
	case MergeReplace:
		return "replace"
	case MergeAttributes:
		return "attributes"
	default:
		return "unknown"
	}
}

// ThemeMaterializer is the default Materializer. It applies descriptors on
// top of a base style.
type ThemeMaterializer struct {
	base core.Style
	mode MergeMode
}

// NewMaterializer creates a ThemeMaterializer overlaying descriptors on base.
func NewMaterializer(base core.Style) *ThemeMaterializer {
	return &ThemeMaterializer{base: base, mode: MergeOverlay}
}

// WithMergeMode returns a copy using mode.
func (m *ThemeMaterializer) WithMergeMode(mode MergeMode) *ThemeMaterializer {
	cp := *m
	cp.mode = mode
	return &cp
}

// Base returns the base style.
func (m *ThemeMaterializer) Base() core.Style {
	return m.base
}

// Materialize realizes desc.
func (m *ThemeMaterializer) Materialize(desc core.Style) Attributes {
	eff := m.merge(desc)

	font := eff.Font
	if font.Family == "" {
		font.Family = DefaultFontFamily
	}
	if font.Size == 0 {
		font.Size = DefaultFontSize
	}

	return Attributes{
		Style: eff,
		Cell:  cellStyle(eff),
		Font:  font,
		Layout: Layout{
			HeadIndent:          eff.Paragraph.Indent,
			FirstLineHeadIndent: eff.Paragraph.Indent + eff.Paragraph.FirstLineIndent,
			SpacingBefore:       eff.Paragraph.SpacingBefore,
		},
	}
}

func (m *ThemeMaterializer) merge(desc core.Style) core.Style {
	switch m.mode {
	case MergeReplace:
		return desc
	case MergeAttributes:
		result := m.base
		result.Attributes |= desc.Attributes
		return result
	default:
		return m.base.Merge(desc)
	}
}

// cellStyle converts a merged style to tcell. Dim true-color text is
// rendered by blending the foreground toward the background, since many
// terminals ignore the dim attribute.
func cellStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	fg := s.Foreground
	attrs := s.Attributes
	if attrs.Has(core.AttrDim) && !fg.IsDefault() && !fg.Indexed &&
		!s.Background.IsDefault() && !s.Background.Indexed {
		fg = fg.Blend(s.Background, dimBlend)
		attrs = attrs.Without(core.AttrDim)
	}

	if !fg.IsDefault() {
		style = style.Foreground(tcellColor(fg))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcellColor(s.Background))
	}

	if attrs.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if attrs.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if attrs.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if attrs.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if attrs.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if attrs.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	if attrs.Has(core.AttrHidden) {
		// Hidden text keeps its cells but draws in the background color.
		style = style.Foreground(tcellColor(s.Background))
	}

	return style
}

func tcellColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}
