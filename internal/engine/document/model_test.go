package document

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markupcore/internal/engine/attrs"
	"github.com/dshills/markupcore/internal/engine/syntax"
	"github.com/dshills/markupcore/internal/format"
	"github.com/dshills/markupcore/internal/renderer/core"
)

var (
	plain     = core.DefaultStyle()
	bold      = core.DefaultStyle().Bold()
	boldDim   = core.DefaultStyle().Bold().Dim()
	italic    = core.DefaultStyle().Italic()
	italicDim = core.DefaultStyle().Italic().Dim()
)

func testTheme() format.Theme {
	return format.NewTheme(plain).
		With(format.TypeHeader, bold).
		With(format.TypeDelimiter, core.DefaultStyle().Dim()).
		With(format.TypeEmphasis, italic)
}

func newModel(t *testing.T, text string, opts ...Option) *Model {
	t.Helper()
	m := New(lineGrammar, format.New(testTheme(), nil), opts...)
	require.NoError(t, m.Load(text))
	return m
}

func runsOf(s *attrs.RunStore) []attrs.Run {
	var out []attrs.Run
	for r := range s.Runs() {
		out = append(out, r)
	}
	return out
}

func TestLoad(t *testing.T) {
	m := newModel(t, "# Title\nSome text\n")

	assert.Equal(t, "(document (header delimiter text) newline (paragraph text) newline)", m.Tree().CompactStructure())
	assert.True(t, m.Tree().Frozen())
	assert.Equal(t, 18, m.Len())
	assert.Equal(t, []attrs.Run{
		{Style: boldDim, Length: 2},
		{Style: bold, Length: 5},
		{Style: plain, Length: 11},
	}, runsOf(m.Store()))

	assert.True(t, m.Dirty().NeedsFullRedraw())
	assert.Equal(t, []core.Range{{Start: 0, End: 18}}, m.Dirty().Ranges())
}

func TestReplaceCharacters_Restyles(t *testing.T) {
	m := newModel(t, "# Title\nSome text\n")
	m.Dirty().Clear()

	var seen []Change
	m.OnChange(func(c Change) { seen = append(seen, c) })

	// "text" becomes "*text*".
	c, err := m.ReplaceCharacters("# Title\nSome *text*\n", core.Range{Start: 13, End: 19}, 2)
	require.NoError(t, err)

	want := Change{
		Edited:             core.Range{Start: 13, End: 19},
		OldRange:           core.Range{Start: 13, End: 17},
		ChangeInLength:     2,
		ChangedAttributes:  core.Range{Start: 13, End: 19},
		HasAttributeChange: true,
	}
	assert.Equal(t, want, c)
	assert.Equal(t, []Change{want}, seen)

	assert.Equal(t, 20, m.Len())
	assert.Equal(t, []attrs.Run{
		{Style: boldDim, Length: 2},
		{Style: bold, Length: 5},
		{Style: plain, Length: 6},
		{Style: italicDim, Length: 1},
		{Style: italic, Length: 4},
		{Style: italicDim, Length: 1},
		{Style: plain, Length: 1},
	}, runsOf(m.Store()))
	assert.Equal(t, []core.Range{{Start: 13, End: 19}}, m.Dirty().Ranges())
	assert.Equal(t, 20, m.Dirty().Count())
}

func TestReplaceCharacters_PlainInsert(t *testing.T) {
	m := newModel(t, "# Title\nSome text\n")

	c, err := m.ReplaceCharacters("# Title\nSome more text\n", core.Range{Start: 13, End: 18}, 5)
	require.NoError(t, err)
	assert.False(t, c.HasAttributeChange)
	assert.Equal(t, core.Range{Start: 13, End: 13}, c.OldRange)
	assert.Equal(t, 23, m.Len())
}

func TestReplaceCharacters_HeaderExtends(t *testing.T) {
	m := newModel(t, "# Title\nSome text\n")

	// The patched store gives the new character the style of the newline
	// that followed it; reformatting makes it part of the header.
	c, err := m.ReplaceCharacters("# Titles\nSome text\n", core.Range{Start: 7, End: 8}, 1)
	require.NoError(t, err)
	assert.True(t, c.HasAttributeChange)
	assert.Equal(t, core.Range{Start: 7, End: 8}, c.ChangedAttributes)

	st, rng, err := m.Store().StyleAt(7)
	require.NoError(t, err)
	assert.Equal(t, bold, st)
	assert.Equal(t, core.Range{Start: 2, End: 8}, rng)
}

func TestReplaceCharacters_Delete(t *testing.T) {
	m := newModel(t, "# Title\nSome *text*\n")

	// Removing the opening delimiter turns the emphasis back into text.
	c, err := m.ReplaceCharacters("# Title\nSome text*\n", core.Range{Start: 13, End: 13}, -1)
	require.NoError(t, err)

	assert.Equal(t, core.Range{Start: 13, End: 14}, c.OldRange)
	assert.True(t, c.HasAttributeChange)
	assert.Equal(t, core.Range{Start: 13, End: 18}, c.ChangedAttributes)
	assert.Equal(t, []attrs.Run{
		{Style: boldDim, Length: 2},
		{Style: bold, Length: 5},
		{Style: plain, Length: 12},
	}, runsOf(m.Store()))
}

func TestReplaceCharacters_InvalidEdit(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		edited core.Range
		delta  int
	}{
		{"length disagrees", "# Title\n", core.Range{Start: 0, End: 1}, 1},
		{"edited past end", "# Title\nSome text\n", core.Range{Start: 17, End: 19}, 0},
		{"negative start", "# Title\nSome text\n", core.Range{Start: -1, End: 0}, 0},
		{"reversed range", "# Title\nSome text\n", core.Range{Start: 5, End: 4}, 0},
		{"old range negative", "# Title\nSome text!\n", core.Range{Start: 5, End: 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, "# Title\nSome text\n")
			before := m.Store().Snapshot()
			tree := m.Tree()

			_, err := m.ReplaceCharacters(tt.text, tt.edited, tt.delta)
			assert.ErrorIs(t, err, ErrInvalidEdit)
			assert.True(t, before.Equal(m.Store()))
			assert.Same(t, tree, m.Tree())
		})
	}
}

func TestReplaceCharacters_ParseErrorKeepsModel(t *testing.T) {
	fail := false
	g := GrammarFunc(func(text string) (*syntax.Node, error) {
		if fail {
			return nil, errBroken
		}
		return parseLines(text)
	})
	m := New(g, format.New(testTheme(), nil))
	require.NoError(t, m.Load("# Title\n"))
	before := m.Store().Snapshot()
	tree := m.Tree()

	fail = true
	_, err := m.ReplaceCharacters("# Title!\n", core.Range{Start: 7, End: 8}, 1)
	assert.ErrorIs(t, err, errBroken)
	assert.True(t, before.Equal(m.Store()))
	assert.Same(t, tree, m.Tree())
	assert.Equal(t, 8, m.Len())
}

func TestLoad_TreeMismatch(t *testing.T) {
	g := GrammarFunc(func(text string) (*syntax.Node, error) {
		return syntax.NewNode(format.TypeText, len(text)+1), nil
	})
	m := New(g, nil)
	assert.ErrorIs(t, m.Load("abc"), ErrTreeMismatch)
	assert.Nil(t, m.Tree())
}

func TestLoad_NilTree(t *testing.T) {
	m := New(GrammarFunc(func(string) (*syntax.Node, error) { return nil, nil }), nil)
	require.NoError(t, m.Load(""))
	assert.Equal(t, 0, m.Len())
	assert.NotNil(t, m.Tree())
}

func TestApplyTheme(t *testing.T) {
	m := newModel(t, "# Title\nSome *text*\n")
	m.Dirty().Clear()

	var seen []Change
	m.OnChange(func(c Change) { seen = append(seen, c) })

	c, err := m.ApplyTheme(testTheme().With(format.TypeEmphasis, core.DefaultStyle().Underline()))
	require.NoError(t, err)
	assert.True(t, c.HasAttributeChange)
	assert.Equal(t, core.Range{Start: 13, End: 19}, c.ChangedAttributes)
	assert.Len(t, seen, 1)
	assert.Equal(t, []core.Range{{Start: 13, End: 19}}, m.Dirty().Ranges())

	// Applying the same theme again is a no-op.
	c, err = m.ApplyTheme(m.Formatter().Theme())
	require.NoError(t, err)
	assert.False(t, c.HasAttributeChange)
	assert.Len(t, seen, 1)
}

func TestApplyTheme_ErrorKeepsTheme(t *testing.T) {
	m := newModel(t, "# Title\nSome *text*\n")
	before := m.Formatter().Theme()

	// A store that no longer matches the tree makes reformatting fail.
	m.store.AppendAttributes(plain, 1)

	_, err := m.ApplyTheme(testTheme().With(format.TypeEmphasis, core.DefaultStyle().Underline()))
	require.ErrorIs(t, err, attrs.ErrLengthMismatch)
	assert.Equal(t, before, m.Formatter().Theme())
}

func TestApplyTheme_BeforeLoad(t *testing.T) {
	m := New(lineGrammar, nil)
	c, err := m.ApplyTheme(testTheme())
	require.NoError(t, err)
	assert.Equal(t, Change{}, c)
	assert.Equal(t, plain, m.Formatter().Theme().Default)
}

func TestAttributesAt(t *testing.T) {
	m := newModel(t, "# Title\n")
	a, rng, err := m.AttributesAt(3)
	require.NoError(t, err)
	assert.Equal(t, core.Range{Start: 2, End: 7}, rng)
	assert.True(t, a.Style.Attributes.Has(core.AttrBold))

	_, _, err = m.AttributesAt(8)
	assert.ErrorIs(t, err, attrs.ErrIndexOutOfRange)
}

func TestWithValidation(t *testing.T) {
	m := newModel(t, "# Title\n", WithValidation(true))
	_, err := m.ReplaceCharacters("# Title\nmore\n", core.Range{Start: 8, End: 13}, 5)
	require.NoError(t, err)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	m := newModel(t, "# Title\n", WithLogger(logger))
	_, err := m.ReplaceCharacters("# Title\nx", core.Range{Start: 8, End: 9}, 1)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"component":"document"`)
	assert.Contains(t, out, "document loaded")
	assert.Contains(t, out, "characters replaced")
}

// TestEditSequence applies a series of edits and checks after each one that
// the patched model matches a model loaded from scratch.
func TestEditSequence(t *testing.T) {
	type edit struct {
		start, oldEnd int
		insert        string
	}
	text := "# Title\nSome text\n"
	edits := []edit{
		{13, 13, "*"},
		{18, 18, "*"},
		{0, 2, ""},
		{0, 0, "# "},
		{8, 12, "Other"},
		{len("# Title\nOther *text*\n"), len("# Title\nOther *text*\n"), "tail *x*"},
		{5, 9, ""},
	}

	m := newModel(t, text)
	for i, e := range edits {
		text = text[:e.start] + e.insert + text[e.oldEnd:]
		delta := len(e.insert) - (e.oldEnd - e.start)
		_, err := m.ReplaceCharacters(text, core.Range{Start: e.start, End: e.start + len(e.insert)}, delta)
		require.NoError(t, err, "edit %d", i)

		fresh := newModel(t, text)
		assert.True(t, fresh.Store().Equal(m.Store()), "edit %d: %s != %s", i, m.Store(), fresh.Store())
		assert.Equal(t, fresh.Tree().CompactStructure(), m.Tree().CompactStructure(), "edit %d", i)
		require.NoError(t, m.Tree().Validate())
	}
}
