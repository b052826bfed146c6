// Package dirty tracks which ranges of a text need redrawing. Ranges are
// kept sorted and coalesced, and are shifted along with edits so that
// pending work stays aligned with the text.
package dirty

import (
	"slices"
	"sync"

	"github.com/dshills/markupcore/internal/renderer/core"
)

// ChangeType represents the type of text change.
type ChangeType uint8

const (
	// ChangeInsert indicates text was inserted.
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates text was deleted.
	ChangeDelete

	// ChangeReplace indicates text was replaced.
	ChangeReplace

	// ChangeStyle indicates only styling changed (no content change).
	ChangeStyle
)

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	case ChangeStyle:
		return "style"
	default:
		return "unknown"
	}
}

// Change describes one edit for MarkChange.
type Change struct {
	Type ChangeType

	// Range is the affected range in the text after the edit.
	Range core.Range

	// Delta is the change in text length. It is applied at Range.Start
	// before Range is marked.
	Delta int
}

// Tracker tracks dirty ranges and coalesces them for efficient rendering.
type Tracker struct {
	mu sync.RWMutex

	// ranges are sorted, disjoint and never adjacent.
	ranges []core.Range

	// full indicates the whole text needs redrawing.
	full bool

	// count is the length of the tracked text.
	count int

	// maxRanges is the maximum number of ranges before forcing a full redraw.
	maxRanges int

	// coalesceThreshold is the dirty fraction of the text that triggers a
	// full redraw.
	coalesceThreshold float64
}

// NewTracker creates a tracker for a text of count code units.
// A negative count is treated as zero.
func NewTracker(count int) *Tracker {
	return &Tracker{
		ranges:            make([]core.Range, 0, 16),
		count:             max(count, 0),
		maxRanges:         32,
		coalesceThreshold: 0.5,
	}
}

// Count returns the length of the tracked text.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.count
}

// MarkAll resets the tracked length to count and marks everything dirty.
func (t *Tracker) MarkAll(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count = max(count, 0)
	t.full = true
	t.ranges = t.ranges[:0]
}

// Mark marks r dirty. The range is clamped to the text.
func (t *Tracker) Mark(r core.Range) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.full {
		return
	}
	t.addRange(r)
}

// MarkChange shifts pending ranges by the change's delta and marks its range.
func (t *Tracker) MarkChange(c Change) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c.Delta != 0 {
		t.shift(c.Range.Start, c.Delta)
	}
	if t.full {
		return
	}
	t.addRange(c.Range)
}

// Shift adjusts the tracked length and pending ranges for an edit of delta
// code units at offset at: an insertion when delta is positive, a deletion
// of [at, at-delta) when negative.
func (t *Tracker) Shift(at, delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.shift(at, delta)
}

func (t *Tracker) shift(at, delta int) {
	if delta == 0 {
		return
	}
	t.count = max(t.count+delta, 0)
	if t.full {
		return
	}

	out := t.ranges[:0]
	for _, r := range t.ranges {
		if delta > 0 {
			switch {
			case r.Start >= at:
				r.Start += delta
				r.End += delta
			case r.End > at:
				r.End += delta
			}
		} else {
			r.Start = shiftDeleted(r.Start, at, -delta)
			r.End = shiftDeleted(r.End, at, -delta)
		}
		r.End = min(r.End, t.count)
		if r.IsEmpty() {
			continue
		}
		// Deletion can make neighbours adjacent.
		if n := len(out); n > 0 && out[n-1].Touches(r) {
			out[n-1] = out[n-1].Union(r)
			continue
		}
		out = append(out, r)
	}
	t.ranges = out
}

// shiftDeleted maps x across the deletion of [at, at+n).
func shiftDeleted(x, at, n int) int {
	switch {
	case x <= at:
		return x
	case x < at+n:
		return at
	default:
		return x - n
	}
}

// addRange inserts r and coalesces it with its neighbours.
func (t *Tracker) addRange(r core.Range) {
	r.Start = max(r.Start, 0)
	r.End = min(r.End, t.count)
	if r.IsEmpty() {
		return
	}

	// First range that ends at or after r.Start; earlier ones cannot touch r.
	i, _ := slices.BinarySearchFunc(t.ranges, r.Start, func(e core.Range, start int) int {
		return e.End - start
	})
	j := i
	for j < len(t.ranges) && t.ranges[j].Touches(r) {
		r = r.Union(t.ranges[j])
		j++
	}
	t.ranges = slices.Replace(t.ranges, i, j, r)

	if len(t.ranges) > t.maxRanges || t.dirtyRatio() > t.coalesceThreshold {
		t.full = true
		t.ranges = t.ranges[:0]
	}
}

// dirtyRatio returns the fraction of the text covered by ranges.
func (t *Tracker) dirtyRatio() float64 {
	if t.count == 0 {
		return 0
	}
	dirty := 0
	for _, r := range t.ranges {
		dirty += r.Len()
	}
	return float64(dirty) / float64(t.count)
}

// IsDirty returns true if any range is marked dirty.
func (t *Tracker) IsDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return (t.full && t.count > 0) || len(t.ranges) > 0
}

// NeedsFullRedraw returns true if the whole text needs redrawing.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.full
}

// Ranges returns the dirty ranges, sorted and coalesced.
// If a full redraw is needed, returns a single range covering the text.
func (t *Tracker) Ranges() []core.Range {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.full {
		if t.count == 0 {
			return []core.Range{}
		}
		return []core.Range{{Start: 0, End: t.count}}
	}
	return slices.Clone(t.ranges)
}

// IsOffsetDirty returns true if the code unit at offset needs redrawing.
func (t *Tracker) IsOffsetDirty(offset int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if offset < 0 || offset >= t.count {
		return false
	}
	if t.full {
		return true
	}
	_, found := slices.BinarySearchFunc(t.ranges, offset, func(e core.Range, off int) int {
		switch {
		case e.End <= off:
			return -1
		case e.Start > off:
			return 1
		default:
			return 0
		}
	})
	return found
}

// IsRangeDirty returns true if any part of r needs redrawing.
func (t *Tracker) IsRangeDirty(r core.Range) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if r.IsEmpty() {
		return false
	}
	if t.full {
		return r.Start < t.count && r.End > 0
	}
	for _, d := range t.ranges {
		if d.Start < r.End && r.Start < d.End {
			return true
		}
	}
	return false
}

// Clear clears all dirty ranges.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ranges = t.ranges[:0]
	t.full = false
}

// RangeCount returns the number of dirty ranges.
func (t *Tracker) RangeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.full {
		return 1
	}
	return len(t.ranges)
}

// SetMaxRanges sets the maximum number of ranges before forcing a full redraw.
// Values less than 1 are clamped to 1.
func (t *Tracker) SetMaxRanges(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.maxRanges = max(n, 1)
}

// SetCoalesceThreshold sets the dirty fraction that triggers a full redraw.
func (t *Tracker) SetCoalesceThreshold(threshold float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.coalesceThreshold = min(max(threshold, 0), 1)
}

// Stats returns statistics about the tracker state.
func (t *Tracker) Stats() TrackerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return TrackerStats{
		RangeCount:    len(t.ranges),
		FullRedraw:    t.full,
		DirtyRatio:    t.dirtyRatio(),
		Count:         t.count,
		MaxRanges:     t.maxRanges,
		CoalThreshold: t.coalesceThreshold,
	}
}

// TrackerStats contains statistics about the tracker state.
type TrackerStats struct {
	RangeCount    int
	FullRedraw    bool
	DirtyRatio    float64
	Count         int
	MaxRanges     int
	CoalThreshold float64
}
