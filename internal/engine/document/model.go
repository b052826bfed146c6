package document

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/markupcore/internal/engine/attrs"
	"github.com/dshills/markupcore/internal/engine/syntax"
	"github.com/dshills/markupcore/internal/format"
	"github.com/dshills/markupcore/internal/renderer/core"
	"github.com/dshills/markupcore/internal/renderer/dirty"
	"github.com/dshills/markupcore/internal/renderer/style"
)

// Grammar parses a text into a syntax tree covering all of it.
type Grammar interface {
	Parse(text string) (*syntax.Node, error)
}

// GrammarFunc adapts a function to Grammar.
type GrammarFunc func(text string) (*syntax.Node, error)

// Parse calls f(text).
func (f GrammarFunc) Parse(text string) (*syntax.Node, error) {
	return f(text)
}

// Change describes one completed edit.
type Change struct {
	// Edited is the replaced range in the new text.
	Edited core.Range

	// OldRange is the replaced range in the text before the edit.
	OldRange core.Range

	// ChangeInLength is the difference between the new and old lengths.
	ChangeInLength int

	// ChangedAttributes is the smallest range of the new text whose
	// styles differ from before. Valid only if HasAttributeChange is set.
	ChangedAttributes core.Range

	HasAttributeChange bool
}

// Handler receives changes.
type Handler func(Change)

// Model holds the current tree, run store and dirty ranges of a document.
// It is not safe for concurrent use.
type Model struct {
	grammar   Grammar
	formatter *format.Formatter

	tree  *syntax.Node
	store *attrs.RunStore
	dirty *dirty.Tracker

	handlers []Handler
	validate bool
	logger   zerolog.Logger
}

// New creates an empty model. A nil formatter uses the default theme.
func New(grammar Grammar, formatter *format.Formatter, opts ...Option) *Model {
	if formatter == nil {
		formatter = format.New(format.DefaultTheme(), nil)
	}
	m := &Model{
		grammar:   grammar,
		formatter: formatter,
		store:     attrs.New(formatter.Cache()),
		dirty:     dirty.NewTracker(0),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tree returns the current frozen tree, or nil before Load.
func (m *Model) Tree() *syntax.Node {
	return m.tree
}

// Store returns the current run store.
func (m *Model) Store() *attrs.RunStore {
	return m.store
}

// Dirty returns the tracker of ranges awaiting a redraw.
func (m *Model) Dirty() *dirty.Tracker {
	return m.dirty
}

// Formatter returns the formatter.
func (m *Model) Formatter() *format.Formatter {
	return m.formatter
}

// Len returns the length of the text the model describes.
func (m *Model) Len() int {
	return m.store.Count()
}

// AttributesAt returns the realized attributes at offset and the range
// over which they apply.
func (m *Model) AttributesAt(offset int) (style.Attributes, core.Range, error) {
	return m.store.AttributesAt(offset)
}

// OnChange registers h to be called after every edit.
func (m *Model) OnChange(h Handler) {
	m.handlers = append(m.handlers, h)
}

// Load replaces the whole document with text and marks it dirty.
func (m *Model) Load(text string) error {
	tree, err := m.parse(text)
	if err != nil {
		return err
	}
	store, err := m.formatter.Format(tree)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	m.tree = tree
	m.store = store
	m.dirty.MarkAll(len(text))

	m.logger.Debug().
		Int("length", len(text)).
		Int("runs", store.RunCount()).
		Msg("document loaded")
	return nil
}

// ReplaceCharacters records that the characters now at edited in text
// replaced edited.Len()-changeInLength characters at the same offset.
// text is the complete new text.
//
// On error the model is left as it was.
func (m *Model) ReplaceCharacters(text string, edited core.Range, changeInLength int) (Change, error) {
	old := core.Range{Start: edited.Start, End: edited.End - changeInLength}
	if edited.Start < 0 || edited.End < edited.Start || edited.End > len(text) ||
		old.End < old.Start || old.End > m.store.Count() ||
		m.store.Count()+changeInLength != len(text) {
		return Change{}, fmt.Errorf("replace %s (change %d) in text of length %d, was %d: %w",
			edited, changeInLength, len(text), m.store.Count(), ErrInvalidEdit)
	}

	// Patch a snapshot so that the current store stays intact until the
	// new one is ready.
	patched := m.store.Snapshot()
	def := m.formatter.Theme().Default
	if n := old.Len(); n > 0 {
		if err := patched.AdjustLengthOfRun(old.Start, -n, def); err != nil {
			return Change{}, fmt.Errorf("replace %s: %w", edited, err)
		}
	}
	if n := edited.Len(); n > 0 {
		if err := patched.AdjustLengthOfRun(edited.Start, n, def); err != nil {
			return Change{}, fmt.Errorf("replace %s: %w", edited, err)
		}
	}

	tree, err := m.parse(text)
	if err != nil {
		return Change{}, err
	}
	store, diff, changed, err := m.formatter.Reformat(patched, tree)
	if err != nil {
		return Change{}, fmt.Errorf("replace %s: %w", edited, err)
	}

	m.tree = tree
	m.store = store

	m.dirty.MarkChange(dirty.Change{
		Type:  changeType(old, edited),
		Range: edited,
		Delta: changeInLength,
	})
	if changed {
		m.dirty.Mark(diff)
	}

	c := Change{
		Edited:             edited,
		OldRange:           old,
		ChangeInLength:     changeInLength,
		ChangedAttributes:  diff,
		HasAttributeChange: changed,
	}
	m.logger.Debug().
		Stringer("edited", edited).
		Int("delta", changeInLength).
		Bool("restyled", changed).
		Stringer("restyledRange", diff).
		Msg("characters replaced")
	m.notify(c)
	return c, nil
}

// ApplyTheme reformats the current tree with t and reports the restyled
// range as a change with no edit. On error the previous theme is kept.
func (m *Model) ApplyTheme(t format.Theme) (Change, error) {
	prev := m.formatter.Theme()
	m.formatter.SetTheme(t)
	if m.tree == nil {
		return Change{}, nil
	}

	store, diff, changed, err := m.formatter.Reformat(m.store, m.tree)
	if err != nil {
		m.formatter.SetTheme(prev)
		return Change{}, fmt.Errorf("apply theme: %w", err)
	}
	m.store = store

	c := Change{ChangedAttributes: diff, HasAttributeChange: changed}
	if !changed {
		return c, nil
	}
	m.dirty.MarkChange(dirty.Change{Type: dirty.ChangeStyle, Range: diff})
	m.logger.Debug().Stringer("restyledRange", diff).Msg("theme applied")
	m.notify(c)
	return c, nil
}

func (m *Model) parse(text string) (*syntax.Node, error) {
	tree, err := m.grammar.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree == nil {
		tree = syntax.NewNode(format.TypeDocument, 0)
	}
	if tree.Length() != len(text) {
		return nil, fmt.Errorf("parse %q: tree covers %d of %d: %w",
			tree.Type(), tree.Length(), len(text), ErrTreeMismatch)
	}
	if m.validate {
		if err := tree.Validate(); err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
	}
	tree.Freeze()
	return tree, nil
}

func (m *Model) notify(c Change) {
	for _, h := range m.handlers {
		h(c)
	}
}

func changeType(old, edited core.Range) dirty.ChangeType {
	switch {
	case old.IsEmpty():
		return dirty.ChangeInsert
	case edited.IsEmpty():
		return dirty.ChangeDelete
	default:
		return dirty.ChangeReplace
	}
}
