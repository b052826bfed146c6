// Package core provides the style descriptor shared by the attribute store,
// the style cache and the formatter.
//
// A Style is a small comparable value. Two runs of text look the same exactly
// when their Styles are ==, which is what the attribute store relies on when
// merging runs and computing differences.
package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
	AttrHidden                  // Hidden/invisible text
)

var attrNames = []struct {
	attr Attribute
	name string
}{
	{AttrBold, "bold"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrUnderline, "underline"},
	{AttrReverse, "reverse"},
	{AttrStrikethrough, "strikethrough"},
	{AttrHidden, "hidden"},
}

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// String joins the attribute names with '+'.
func (a Attribute) String() string {
	if a == AttrNone {
		return "none"
	}
	var parts []string
	for _, an := range attrNames {
		if a.Has(an.attr) {
			parts = append(parts, an.name)
		}
	}
	return strings.Join(parts, "+")
}

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	Indexed bool
	// Default indicates the renderer's default color.
	Default bool
}

// ColorDefault represents the renderer's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorWhite = Color{R: 255, G: 255, B: 255}
	ColorRed   = Color{R: 255, G: 0, B: 0}
	ColorBlue  = Color{R: 0, G: 0, B: 255}
	ColorGray  = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#rgb" or "#rrggbb"; the leading '#' is optional.
func ColorFromHex(hex string) (Color, error) {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful converts a true color to go-colorful's representation.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.IsDefault() {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Blend mixes c toward other in Lab space. amount 0 returns c, 1 returns other.
// Palette and default colors cannot be mixed and snap to the nearer end.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Indexed || other.Indexed || c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.Colorful().BlendLab(other.Colorful(), amount))
}

// Font names a typeface. Zero fields inherit from the base style.
type Font struct {
	Family string
	Size   float64
}

// IsZero reports whether the font inherits everything.
func (f Font) IsZero() bool {
	return f.Family == "" && f.Size == 0
}

// Paragraph holds block-level layout parameters.
type Paragraph struct {
	// Indent is the head indent in columns.
	Indent int
	// FirstLineIndent is added to Indent on the first line of a paragraph.
	FirstLineIndent int
	// SpacingBefore is blank space above the paragraph, in lines.
	SpacingBefore int
}

// IsZero reports whether no paragraph parameters are set.
func (p Paragraph) IsZero() bool {
	return p == Paragraph{}
}

// Style describes how a span of text looks before it is realized for a
// particular renderer. Styles are compared with ==.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
	Font       Font
	Paragraph  Paragraph
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Attributes: AttrNone,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
		Attributes: AttrNone,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a new style with the given attributes.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes = attrs
	return s
}

// WithFont returns a new style with the given font.
func (s Style) WithFont(f Font) Style {
	s.Font = f
	return s
}

// WithParagraph returns a new style with the given paragraph parameters.
func (s Style) WithParagraph(p Paragraph) Style {
	s.Paragraph = p
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Strikethrough returns a new style with strikethrough attribute added.
func (s Style) Strikethrough() Style {
	s.Attributes |= AttrStrikethrough
	return s
}

// Merge overlays other onto s. Non-default colors and non-zero font and
// paragraph fields of other win; attributes are combined.
func (s Style) Merge(other Style) Style {
	result := s

	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes

	if other.Font.Family != "" {
		result.Font.Family = other.Font.Family
	}
	if other.Font.Size != 0 {
		result.Font.Size = other.Font.Size
	}
	if !other.Paragraph.IsZero() {
		result.Paragraph = other.Paragraph
	}

	return result
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s == DefaultStyle()
}

// String returns a compact description for debugging.
func (s Style) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fg=%s bg=%s attrs=%s", s.Foreground, s.Background, s.Attributes)
	if !s.Font.IsZero() {
		fmt.Fprintf(&b, " font=%q/%g", s.Font.Family, s.Font.Size)
	}
	if !s.Paragraph.IsZero() {
		fmt.Fprintf(&b, " indent=%d/%d spacing=%d",
			s.Paragraph.Indent, s.Paragraph.FirstLineIndent, s.Paragraph.SpacingBefore)
	}
	return b.String()
}
