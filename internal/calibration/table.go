// Package calibration turns Monte-Carlo raw-metric distributions into
// percentile tables and normalizes raw metric values against them.
package calibration

import (
	"fmt"

	"github.com/johns/guildcraft/internal/climate"
	"github.com/johns/guildcraft/internal/metrics"
)

// ranks are the 13 fixed percentile ranks every table entry carries.
var ranks = [13]int{1, 5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 99}

// NumRanks is the number of percentile points per (tier, metric) entry.
const NumRanks = len(ranks)

// Ranks returns the fixed percentile ranks in ascending order.
func Ranks() []int {
	out := make([]int, NumRanks)
	copy(out, ranks[:])
	return out
}

// rankKey formats a rank as its file key, e.g. 1 -> "p01".
func rankKey(rank int) string { return fmt.Sprintf("p%02d", rank) }

// Entry holds the raw-value order statistics at the 13 fixed ranks for
// one (tier, metric). Values are non-decreasing by construction.
type Entry [NumRanks]float64

func (e Entry) validate() error {
	for i := 1; i < NumRanks; i++ {
		if e[i] < e[i-1] {
			return fmt.Errorf("percentile values decrease between %s and %s (%v > %v)",
				rankKey(ranks[i-1]), rankKey(ranks[i]), e[i-1], e[i])
		}
	}
	return nil
}

// Table maps (climate tier, metric) to its calibrated percentile entry.
// A table is immutable once handed to a scorer; concurrent reads need
// no locking.
type Table struct {
	entries map[climate.Tier]map[metrics.Metric]Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[climate.Tier]map[metrics.Metric]Entry)}
}

// Set stores the entry for (tier, metric), rejecting non-monotonic
// percentile values.
func (t *Table) Set(tier climate.Tier, m metrics.Metric, e Entry) error {
	if err := e.validate(); err != nil {
		return fmt.Errorf("%s/%s: %w", tier.Key(), m.Key(), err)
	}
	byMetric, ok := t.entries[tier]
	if !ok {
		byMetric = make(map[metrics.Metric]Entry)
		t.entries[tier] = byMetric
	}
	byMetric[m] = e
	return nil
}

// Entry returns the entry for (tier, metric) and whether it exists.
func (t *Table) Entry(tier climate.Tier, m metrics.Metric) (Entry, bool) {
	e, ok := t.entries[tier][m]
	return e, ok
}

// Tiers returns the tiers with at least one entry, in dataset order.
func (t *Table) Tiers() []climate.Tier {
	var out []climate.Tier
	for _, tier := range climate.Tiers() {
		if len(t.entries[tier]) > 0 {
			out = append(out, tier)
		}
	}
	return out
}

// Len returns the number of (tier, metric) entries.
func (t *Table) Len() int {
	n := 0
	for _, byMetric := range t.entries {
		n += len(byMetric)
	}
	return n
}
