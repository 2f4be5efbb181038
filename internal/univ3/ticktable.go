package univ3

import (
	"fmt"
	"sort"
)

// TickEntry is one initialized tick boundary. LiquidityNet is the signed
// change in active liquidity when the price crosses the boundary upward;
// LiquidityGross tracks total references so empty ticks can be pruned.
type TickEntry struct {
	Index          int
	LiquidityNet   float64
	LiquidityGross float64
}

// TickTable holds the pool's initialized ticks sorted by index.
type TickTable struct {
	ticks   []TickEntry
	spacing int
}

// NewTickTable returns an empty table for the given tick spacing.
func NewTickTable(spacing int) *TickTable {
	return &TickTable{spacing: spacing}
}

// Spacing returns the pool tick spacing the table was built for.
func (t *TickTable) Spacing() int { return t.spacing }

// Clone deep-copies the table.
func (t *TickTable) Clone() *TickTable {
	out := &TickTable{
		ticks:   make([]TickEntry, len(t.ticks)),
		spacing: t.spacing,
	}
	copy(out.ticks, t.ticks)
	return out
}

func (t *TickTable) search(index int) int {
	return sort.Search(len(t.ticks), func(i int) bool {
		return t.ticks[i].Index >= index
	})
}

// Get returns the entry at index, if initialized.
func (t *TickTable) Get(index int) (TickEntry, bool) {
	i := t.search(index)
	if i < len(t.ticks) && t.ticks[i].Index == index {
		return t.ticks[i], true
	}
	return TickEntry{}, false
}

// AddRange records liquidityDelta over [lower, upper): the net delta is
// added at the lower boundary and removed at the upper one. Boundaries must
// be usable ticks with lower < upper.
func (t *TickTable) AddRange(lower, upper int, liquidityDelta float64) error {
	if lower >= upper {
		return fmt.Errorf("tick range [%d, %d) inverted: %w", lower, upper, ErrInvalidRange)
	}
	if lower%t.spacing != 0 || upper%t.spacing != 0 {
		return fmt.Errorf("ticks %d/%d not multiples of spacing %d: %w", lower, upper, t.spacing, ErrInvalidInput)
	}
	if lower < MinTick || upper > MaxTick {
		return fmt.Errorf("tick range [%d, %d) out of protocol bounds: %w", lower, upper, ErrInvalidInput)
	}
	t.update(lower, liquidityDelta, false)
	t.update(upper, liquidityDelta, true)
	return nil
}

func (t *TickTable) update(index int, liquidityDelta float64, upper bool) {
	net := liquidityDelta
	if upper {
		net = -liquidityDelta
	}
	i := t.search(index)
	if i < len(t.ticks) && t.ticks[i].Index == index {
		t.ticks[i].LiquidityNet += net
		t.ticks[i].LiquidityGross += liquidityDelta
		if t.ticks[i].LiquidityGross <= 0 {
			t.ticks = append(t.ticks[:i], t.ticks[i+1:]...)
		}
		return
	}
	t.ticks = append(t.ticks, TickEntry{})
	copy(t.ticks[i+1:], t.ticks[i:])
	t.ticks[i] = TickEntry{Index: index, LiquidityNet: net, LiquidityGross: liquidityDelta}
}

// NextInitialized returns the nearest initialized tick at or below tick
// (down=true) or strictly above it (down=false). The down side includes the
// current tick: a pool whose tick sits on a boundary must still cross it on
// the way down. ok is false when no initialized tick remains in that
// direction.
func (t *TickTable) NextInitialized(tick int, down bool) (int, bool) {
	if len(t.ticks) == 0 {
		return 0, false
	}
	if down {
		i := t.search(tick + 1)
		if i == 0 {
			return 0, false
		}
		return t.ticks[i-1].Index, true
	}
	i := t.search(tick + 1)
	if i == len(t.ticks) {
		return 0, false
	}
	return t.ticks[i].Index, true
}

// CrossUp returns the active-liquidity change for crossing index moving up;
// callers negate it for downward crossings. Unknown ticks contribute zero.
func (t *TickTable) CrossUp(index int) float64 {
	entry, ok := t.Get(index)
	if !ok {
		return 0
	}
	return entry.LiquidityNet
}
