package attrs

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markupcore/internal/renderer/core"
	"github.com/dshills/markupcore/internal/renderer/style"
)

var (
	plain  = core.DefaultStyle()
	bold   = core.DefaultStyle().Bold()
	italic = core.DefaultStyle().Italic()
	red    = core.NewStyle(core.ColorRed)
)

func runsOf(s *RunStore) []Run {
	var out []Run
	for r := range s.Runs() {
		out = append(out, r)
	}
	return out
}

// checkInvariants verifies count, non-empty runs and merged neighbours.
func checkInvariants(t *testing.T, s *RunStore) {
	t.Helper()
	sum := 0
	for i, r := range s.runs {
		assert.Positive(t, r.Length, "run %d is empty", i)
		if i > 0 {
			assert.NotEqual(t, s.runs[i-1].Style, r.Style, "runs %d and %d share a style", i-1, i)
		}
		sum += r.Length
	}
	assert.Equal(t, sum, s.Count())
}

func TestAppendAttributes(t *testing.T) {
	s := New(nil)
	s.AppendAttributes(plain, 3)
	s.AppendAttributes(plain, 2)
	s.AppendAttributes(bold, 4)
	s.AppendAttributes(bold, 0)
	s.AppendAttributes(italic, -1)

	assert.Equal(t, []Run{{plain, 5}, {bold, 4}}, runsOf(s))
	assert.Equal(t, 9, s.Count())
	assert.Equal(t, 2, s.RunCount())
	checkInvariants(t, s)
}

func TestFromRuns(t *testing.T) {
	s := FromRuns(nil, Run{bold, 2}, Run{bold, 3}, Run{plain, 0}, Run{italic, 1})
	assert.Equal(t, []Run{{bold, 5}, {italic, 1}}, runsOf(s))
	assert.NotNil(t, s.Cache())
}

func TestAdjustLengthOfRun_RoundTrip(t *testing.T) {
	s := FromRuns(nil, Run{plain, 5}, Run{bold, 3})

	require.NoError(t, s.AdjustLengthOfRun(5, 2, plain))
	assert.Equal(t, []Run{{plain, 5}, {bold, 5}}, runsOf(s))

	require.NoError(t, s.AdjustLengthOfRun(7, -2, plain))
	assert.Equal(t, []Run{{plain, 5}, {bold, 3}}, runsOf(s))
	checkInvariants(t, s)
}

func TestAdjustLengthOfRun(t *testing.T) {
	tests := []struct {
		name     string
		runs     []Run
		location int
		amount   int
		def      core.Style
		want     []Run
	}{
		{"insert in run", []Run{{plain, 5}, {bold, 3}}, 2, 3, italic, []Run{{plain, 8}, {bold, 3}}},
		{"insert at start", []Run{{plain, 5}, {bold, 3}}, 0, 1, italic, []Run{{plain, 6}, {bold, 3}}},
		{"insert at end appends default", []Run{{plain, 5}, {bold, 3}}, 8, 2, italic, []Run{{plain, 5}, {bold, 3}, {italic, 2}}},
		{"insert at end merges with last", []Run{{plain, 5}, {bold, 3}}, 8, 2, bold, []Run{{plain, 5}, {bold, 5}}},
		{"insert into empty store", nil, 0, 4, italic, []Run{{italic, 4}}},
		{"delete in run", []Run{{plain, 5}, {bold, 3}}, 1, -2, italic, []Run{{plain, 3}, {bold, 3}}},
		{"delete whole run", []Run{{plain, 5}, {bold, 3}}, 5, -3, italic, []Run{{plain, 5}}},
		{"delete run merges neighbours", []Run{{plain, 5}, {bold, 3}, {plain, 2}}, 5, -3, italic, []Run{{plain, 7}}},
		{"delete across runs", []Run{{plain, 5}, {bold, 3}, {italic, 4}}, 3, -6, plain, []Run{{plain, 3}, {italic, 3}}},
		{"delete across runs merging", []Run{{plain, 5}, {bold, 3}, {plain, 4}}, 4, -5, bold, []Run{{plain, 7}}},
		{"delete everything", []Run{{plain, 5}, {bold, 3}}, 0, -8, plain, nil},
		{"zero amount", []Run{{plain, 5}}, 3, 0, bold, []Run{{plain, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromRuns(nil, tt.runs...)
			require.NoError(t, s.AdjustLengthOfRun(tt.location, tt.amount, tt.def))
			assert.Equal(t, tt.want, runsOf(s))
			checkInvariants(t, s)
		})
	}
}

func TestAdjustLengthOfRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		location int
		amount   int
	}{
		{"negative location", -1, 1},
		{"past end", 9, 1},
		{"delete at end", 8, -1},
		{"delete past end", 6, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromRuns(nil, Run{plain, 5}, Run{bold, 3})
			err := s.AdjustLengthOfRun(tt.location, tt.amount, plain)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Equal(t, []Run{{plain, 5}, {bold, 3}}, runsOf(s), "store must be unchanged")
		})
	}
}

// TestAdjustLengthOfRun_Properties applies random edits and checks that the
// store keeps its invariants and tracks the expected length.
func TestAdjustLengthOfRun_Properties(t *testing.T) {
	styles := []core.Style{plain, bold, italic, red}

	f := func(seed int64) bool {
		rng := rand.New(rand.NewSource(seed))
		s := New(nil)
		for i := 0; i < 10; i++ {
			s.AppendAttributes(styles[rng.Intn(len(styles))], rng.Intn(6)+1)
		}
		length := s.Count()

		for i := 0; i < 100; i++ {
			loc := rng.Intn(length + 1)
			amount := rng.Intn(5) + 1
			if loc < length && rng.Intn(2) == 0 {
				amount = -min(amount, length-loc)
			}
			if err := s.AdjustLengthOfRun(loc, amount, styles[rng.Intn(len(styles))]); err != nil {
				return false
			}
			length += amount
			if i%7 == 0 && length > 0 {
				start := rng.Intn(length)
				end := start + rng.Intn(length-start+1)
				if err := s.SetAttributes(core.Range{Start: start, End: end}, styles[rng.Intn(len(styles))]); err != nil {
					return false
				}
			}

			sum := 0
			for j, r := range s.runs {
				if r.Length <= 0 || (j > 0 && s.runs[j-1].Style == r.Style) {
					return false
				}
				sum += r.Length
			}
			if sum != length || s.Count() != length {
				return false
			}
		}
		return true
	}

	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 100}))
}

func TestSetAttributes(t *testing.T) {
	tests := []struct {
		name string
		runs []Run
		r    core.Range
		desc core.Style
		want []Run
	}{
		{"middle of run", []Run{{plain, 10}}, core.Range{Start: 4, End: 6}, bold, []Run{{plain, 4}, {bold, 2}, {plain, 4}}},
		{"whole run", []Run{{plain, 5}, {bold, 3}}, core.Range{Start: 5, End: 8}, italic, []Run{{plain, 5}, {italic, 3}}},
		{"across runs", []Run{{plain, 5}, {bold, 3}, {italic, 2}}, core.Range{Start: 3, End: 9}, red, []Run{{plain, 3}, {red, 6}, {italic, 1}}},
		{"merges with neighbours", []Run{{plain, 5}, {bold, 3}, {plain, 2}}, core.Range{Start: 5, End: 8}, plain, []Run{{plain, 10}}},
		{"same style", []Run{{plain, 5}, {bold, 3}}, core.Range{Start: 1, End: 3}, plain, []Run{{plain, 5}, {bold, 3}}},
		{"empty range", []Run{{plain, 5}}, core.Range{Start: 2, End: 2}, bold, []Run{{plain, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromRuns(nil, tt.runs...)
			require.NoError(t, s.SetAttributes(tt.r, tt.desc))
			assert.Equal(t, tt.want, runsOf(s))
			checkInvariants(t, s)
		})
	}
}

func TestSetAttributes_InvalidRange(t *testing.T) {
	s := FromRuns(nil, Run{plain, 5})
	for _, r := range []core.Range{{Start: -1, End: 2}, {Start: 3, End: 2}, {Start: 2, End: 6}} {
		assert.ErrorIs(t, s.SetAttributes(r, bold), ErrInvalidRange, "range %s", r)
	}
}

func TestStyleAt(t *testing.T) {
	s := FromRuns(nil, Run{plain, 5}, Run{bold, 3}, Run{italic, 2})

	tests := []struct {
		location int
		want     core.Style
		rng      core.Range
	}{
		{0, plain, core.Range{Start: 0, End: 5}},
		{4, plain, core.Range{Start: 0, End: 5}},
		{5, bold, core.Range{Start: 5, End: 8}},
		{9, italic, core.Range{Start: 8, End: 10}},
		{6, bold, core.Range{Start: 5, End: 8}},
		{1, plain, core.Range{Start: 0, End: 5}},
	}

	for _, tt := range tests {
		got, rng, err := s.StyleAt(tt.location)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "location %d", tt.location)
		assert.Equal(t, tt.rng, rng, "location %d", tt.location)
	}

	_, _, err := s.StyleAt(10)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, _, err = s.StyleAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestAttributesAt(t *testing.T) {
	cache := style.NewCache(style.NewMaterializer(core.DefaultStyle()))
	s := FromRuns(cache, Run{plain, 5}, Run{bold, 3})

	a, rng, err := s.AttributesAt(6)
	require.NoError(t, err)
	assert.Equal(t, core.Range{Start: 5, End: 8}, rng)
	assert.Equal(t, tcell.StyleDefault.Bold(true), a.Cell)

	_, _, err = s.AttributesAt(7)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Misses(), "second lookup in the same run should hit the cache")

	_, _, err = s.AttributesAt(8)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSnapshot_CopyOnWrite(t *testing.T) {
	s := FromRuns(nil, Run{plain, 5}, Run{bold, 3})
	before := s.Snapshot()

	require.NoError(t, s.AdjustLengthOfRun(2, 4, plain))
	assert.Equal(t, []Run{{plain, 5}, {bold, 3}}, runsOf(before))
	assert.Equal(t, []Run{{plain, 9}, {bold, 3}}, runsOf(s))

	before.AppendAttributes(italic, 1)
	assert.Equal(t, []Run{{plain, 9}, {bold, 3}}, runsOf(s))
	assert.Equal(t, []Run{{plain, 5}, {bold, 3}, {italic, 1}}, runsOf(before))
	assert.Same(t, s.Cache(), before.Cache())
}

func TestEqual(t *testing.T) {
	a := FromRuns(nil, Run{plain, 5}, Run{bold, 3})
	b := FromRuns(nil, Run{plain, 5}, Run{bold, 3})
	c := FromRuns(nil, Run{plain, 4}, Run{bold, 4})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.Equal(a.Snapshot()))
}

func TestString(t *testing.T) {
	s := FromRuns(nil, Run{bold, 2})
	assert.Equal(t, "[(fg=default bg=default attrs=bold, 2)]", s.String())
	assert.Equal(t, "[]", New(nil).String())
}
