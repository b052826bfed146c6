package attrs

import (
	"fmt"
	"iter"

	"github.com/dshills/markupcore/internal/renderer/core"
)

// Index addresses one code unit of the store as a run and an offset within
// that run. The end index is {RunCount(), 0}.
type Index struct {
	Run    int
	Offset int
}

// Less orders indexes by position.
func (i Index) Less(other Index) bool {
	if i.Run != other.Run {
		return i.Run < other.Run
	}
	return i.Offset < other.Offset
}

// StartIndex returns the index of the first code unit.
func (s *RunStore) StartIndex() Index {
	return Index{}
}

// EndIndex returns the index one past the last code unit.
func (s *RunStore) EndIndex() Index {
	return Index{Run: len(s.runs)}
}

// IndexOf resolves a location in [0, Count()] to an Index.
func (s *RunStore) IndexOf(location int) (Index, error) {
	if location < 0 || location > s.count {
		return Index{}, fmt.Errorf("index of %d in store of length %d: %w", location, s.count, ErrIndexOutOfRange)
	}
	if location == s.count {
		return s.EndIndex(), nil
	}
	run, start := s.locate(location)
	return Index{Run: run, Offset: location - start}, nil
}

// LocationOf converts an index back to a location.
func (s *RunStore) LocationOf(i Index) int {
	loc := i.Offset
	for _, r := range s.runs[:i.Run] {
		loc += r.Length
	}
	return loc
}

// At returns the descriptor at i.
func (s *RunStore) At(i Index) core.Style {
	return s.runs[i.Run].Style
}

// IndexAfter returns the index following i. It panics at the end index.
func (s *RunStore) IndexAfter(i Index) Index {
	if i.Run >= len(s.runs) {
		panic("attrs: IndexAfter called on end index")
	}
	i.Offset++
	if i.Offset == s.runs[i.Run].Length {
		return Index{Run: i.Run + 1}
	}
	return i
}

// IndexOffsetBy moves i by n code units. It returns the zero Index and
// false if the result would pass limit or leave the store.
func (s *RunStore) IndexOffsetBy(i Index, n int, limit Index) (Index, bool) {
	var (
		result Index
		ok     bool
	)
	if n >= 0 {
		result, ok = s.forward(i, n)
		if ok && !limit.Less(i) && limit.Less(result) {
			return Index{}, false
		}
	} else {
		result, ok = s.backward(i, -n)
		if ok && !i.Less(limit) && result.Less(limit) {
			return Index{}, false
		}
	}
	return result, ok
}

func (s *RunStore) forward(i Index, n int) (Index, bool) {
	for n > 0 {
		if i.Run >= len(s.runs) {
			return Index{}, false
		}
		avail := s.runs[i.Run].Length - i.Offset
		if n < avail {
			i.Offset += n
			return i, true
		}
		n -= avail
		i = Index{Run: i.Run + 1}
	}
	return i, true
}

func (s *RunStore) backward(i Index, n int) (Index, bool) {
	for n > 0 {
		if i.Offset >= n {
			i.Offset -= n
			return i, true
		}
		n -= i.Offset
		if i.Run == 0 {
			return Index{}, false
		}
		i = Index{Run: i.Run - 1, Offset: s.runs[i.Run-1].Length}
	}
	return i, true
}

// Distance returns the number of code units from one index to another;
// negative when to precedes from.
func (s *RunStore) Distance(from, to Index) int {
	if to.Less(from) {
		return -s.Distance(to, from)
	}
	d := to.Offset - from.Offset
	for _, r := range s.runs[from.Run:to.Run] {
		d += r.Length
	}
	return d
}

// All iterates over every code unit with its descriptor.
func (s *RunStore) All() iter.Seq2[int, core.Style] {
	return func(yield func(int, core.Style) bool) {
		loc := 0
		for _, r := range s.runs {
			for j := 0; j < r.Length; j++ {
				if !yield(loc, r.Style) {
					return
				}
				loc++
			}
		}
	}
}
