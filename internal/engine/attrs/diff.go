package attrs

import (
	"fmt"

	"github.com/dshills/markupcore/internal/renderer/core"
)

// RangeOfAttributeDifferences returns the smallest range outside of which s
// and other have identical runs. ok is false when the stores are identical,
// letting a renderer skip redrawing altogether. Both stores must describe
// texts of the same length.
//
// The runs are compared from the front and from the back, and each walk
// stops at the first run whose descriptor or length differs. When only the
// length differs the shorter of the two still matches; the moved boundary is
// where the difference begins. The result is symmetric in s and other.
func (s *RunStore) RangeOfAttributeDifferences(other *RunStore) (r core.Range, ok bool, err error) {
	if s.count != other.count {
		return core.Range{}, false, fmt.Errorf("compare stores of length %d and %d: %w", s.count, other.count, ErrLengthMismatch)
	}
	a, b := s.runs, other.runs

	// Leading runs.
	i, first := 0, 0
	for i < len(a) && i < len(b) {
		ra, rb := a[i], b[i]
		if ra.Style != rb.Style {
			break
		}
		if ra.Length != rb.Length {
			first += min(ra.Length, rb.Length)
			break
		}
		first += ra.Length
		i++
	}
	if first == s.count {
		return core.Range{}, false, nil
	}

	// Trailing runs. Runs matched from the front are not revisited.
	ja, jb, last := len(a)-1, len(b)-1, 0
	for ja >= i && jb >= i {
		ra, rb := a[ja], b[jb]
		if ra.Style != rb.Style {
			break
		}
		if ra.Length != rb.Length {
			last += min(ra.Length, rb.Length)
			break
		}
		last += ra.Length
		ja--
		jb--
	}

	end := s.count - last
	if end <= first {
		// The walks overlap; fall back to the whole store.
		return core.Range{Start: 0, End: s.count}, true, nil
	}
	return core.Range{Start: first, End: end}, true, nil
}
