package attrs

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/dshills/markupcore/internal/renderer/core"
	"github.com/dshills/markupcore/internal/renderer/style"
)

// Run is a span of text sharing one style descriptor.
type Run struct {
	Style  core.Style
	Length int
}

// RunStore is a run-length encoded sequence of style descriptors.
type RunStore struct {
	runs  []Run
	count int

	// shared is set when runs is referenced by another store; the next
	// write copies it first.
	shared bool

	cache *style.Cache

	// hint caches the last resolved run so that nearby lookups do not
	// rescan from the start.
	hint position
}

// position is a run index together with the offset at which it starts.
type position struct {
	run   int
	start int
}

// New creates an empty store realizing attributes through cache. A nil cache
// gets a private one with the default materializer.
func New(cache *style.Cache) *RunStore {
	if cache == nil {
		cache = style.NewCache(nil)
	}
	return &RunStore{cache: cache}
}

// FromRuns creates a store from runs. Zero-length runs are dropped and
// equal neighbours are merged.
func FromRuns(cache *style.Cache, runs ...Run) *RunStore {
	s := New(cache)
	for _, r := range runs {
		s.AppendAttributes(r.Style, r.Length)
	}
	return s
}

// Count returns the number of code units described by the store.
func (s *RunStore) Count() int {
	return s.count
}

// RunCount returns the number of runs.
func (s *RunStore) RunCount() int {
	return len(s.runs)
}

// Cache returns the style cache used by AttributesAt.
func (s *RunStore) Cache() *style.Cache {
	return s.cache
}

// Runs iterates over the runs in order.
func (s *RunStore) Runs() iter.Seq[Run] {
	return func(yield func(Run) bool) {
		for _, r := range s.runs {
			if !yield(r) {
				return
			}
		}
	}
}

// Snapshot returns a store with the same contents. The two share their run
// slice until either of them is modified.
func (s *RunStore) Snapshot() *RunStore {
	s.shared = true
	return &RunStore{
		runs:   s.runs,
		count:  s.count,
		shared: true,
		cache:  s.cache,
	}
}

// Equal reports whether both stores hold the same runs.
func (s *RunStore) Equal(other *RunStore) bool {
	return s.count == other.count && slices.Equal(s.runs, other.runs)
}

// String lists the runs as "[(style, length) ...]".
func (s *RunStore) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range s.runs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "(%s, %d)", r.Style, r.Length)
	}
	b.WriteByte(']')
	return b.String()
}

// prepareWrite detaches s from any snapshot sharing its runs.
func (s *RunStore) prepareWrite() {
	if s.shared {
		s.runs = slices.Clone(s.runs)
		s.shared = false
	}
}

// AppendAttributes grows the store by length code units styled with desc.
// Non-positive lengths are ignored.
func (s *RunStore) AppendAttributes(desc core.Style, length int) {
	if length <= 0 {
		return
	}
	s.prepareWrite()
	if n := len(s.runs); n > 0 && s.runs[n-1].Style == desc {
		s.runs[n-1].Length += length
	} else {
		s.runs = append(s.runs, Run{Style: desc, Length: length})
	}
	s.count += length
}

// AdjustLengthOfRun applies an edit of amount code units at location:
// an insertion when amount is positive, a deletion when negative.
//
// At the very end of the store an insertion is styled with def. Anywhere
// else the run containing location absorbs the change. A deletion that
// reaches past the end of that run continues into the following runs. Runs
// that become empty are removed.
func (s *RunStore) AdjustLengthOfRun(location, amount int, def core.Style) error {
	if location < 0 || location > s.count {
		return fmt.Errorf("adjust at %d in store of length %d: %w", location, s.count, ErrIndexOutOfRange)
	}
	if amount == 0 {
		return nil
	}

	if location == s.count {
		if amount < 0 {
			return fmt.Errorf("delete %d at end of store of length %d: %w", -amount, s.count, ErrIndexOutOfRange)
		}
		s.AppendAttributes(def, amount)
		return nil
	}

	if amount < 0 && location-amount > s.count {
		return fmt.Errorf("delete %d at %d in store of length %d: %w", -amount, location, s.count, ErrIndexOutOfRange)
	}

	i, start := s.locate(location)
	s.prepareWrite()

	if amount > 0 {
		s.runs[i].Length += amount
		s.count += amount
		return nil
	}

	remaining := -amount
	offset := location - start
	first := i
	for remaining > 0 {
		take := min(s.runs[i].Length-offset, remaining)
		s.runs[i].Length -= take
		remaining -= take
		offset = 0
		i++
	}
	s.count += amount
	s.normalize(first, i)
	return nil
}

// SetAttributes restyles r with desc.
func (s *RunStore) SetAttributes(r core.Range, desc core.Style) error {
	if r.Start < 0 || r.End < r.Start || r.End > s.count {
		return fmt.Errorf("set attributes on %s in store of length %d: %w", r, s.count, ErrInvalidRange)
	}
	if r.IsEmpty() {
		return nil
	}
	s.prepareWrite()
	a := s.splitAt(r.Start)
	b := s.splitAt(r.End)
	s.runs = slices.Replace(s.runs, a, b, Run{Style: desc, Length: r.Len()})
	s.normalize(a, a+1)
	return nil
}

// splitAt makes location a run boundary and returns the index of the run
// starting there. The caller has called prepareWrite.
func (s *RunStore) splitAt(location int) int {
	if location == s.count {
		return len(s.runs)
	}
	i, start := s.locate(location)
	if start == location {
		return i
	}
	left := location - start
	r := s.runs[i]
	s.runs = slices.Insert(s.runs, i+1, Run{Style: r.Style, Length: r.Length - left})
	s.runs[i].Length = left
	return i + 1
}

// normalize drops empty runs in [lo, hi) and merges equal neighbours,
// including the runs just outside that window.
func (s *RunStore) normalize(lo, hi int) {
	if lo > 0 {
		lo--
	}
	if hi < len(s.runs) {
		hi++
	}
	out := lo
	for j := lo; j < hi; j++ {
		r := s.runs[j]
		if r.Length == 0 {
			continue
		}
		if out > lo && s.runs[out-1].Style == r.Style {
			s.runs[out-1].Length += r.Length
			continue
		}
		s.runs[out] = r
		out++
	}
	if out != hi {
		s.runs = append(s.runs[:out], s.runs[hi:]...)
	}
	s.hint = position{}
}

// locate returns the run containing location, which must be in [0, count).
// It walks from the cached hint when that is closer than the start.
func (s *RunStore) locate(location int) (run, start int) {
	h := s.hint
	if h.run >= len(s.runs) || location < h.start-location {
		h = position{}
	}

	if location >= h.start {
		for location >= h.start+s.runs[h.run].Length {
			h.start += s.runs[h.run].Length
			h.run++
		}
	} else {
		for location < h.start {
			h.run--
			h.start -= s.runs[h.run].Length
		}
	}

	s.hint = h
	return h.run, h.start
}

// StyleAt returns the descriptor at location and the range of its run.
func (s *RunStore) StyleAt(location int) (core.Style, core.Range, error) {
	if location < 0 || location >= s.count {
		return core.Style{}, core.Range{}, fmt.Errorf("style at %d in store of length %d: %w", location, s.count, ErrIndexOutOfRange)
	}
	i, start := s.locate(location)
	r := s.runs[i]
	return r.Style, core.Range{Start: start, End: start + r.Length}, nil
}

// AttributesAt returns the realized attributes at location together with
// the effective range over which they apply.
func (s *RunStore) AttributesAt(location int) (style.Attributes, core.Range, error) {
	desc, rng, err := s.StyleAt(location)
	if err != nil {
		return style.Attributes{}, core.Range{}, err
	}
	return s.cache.Materialize(desc), rng, nil
}
