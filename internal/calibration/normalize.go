package calibration

import (
	"fmt"
	"log"

	"github.com/johns/guildcraft/internal/climate"
	"github.com/johns/guildcraft/internal/metrics"
)

// neutralScore stands in when a (tier, metric) entry is absent from the
// table. Missing calibration is a data problem, not a scoring problem,
// so it warns instead of failing.
const neutralScore = 50.0

// MissingEntryError reports an absent (tier, metric) calibration entry.
type MissingEntryError struct {
	Tier   climate.Tier
	Metric metrics.Metric
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf("no calibration entry for %s/%s", e.Tier.Key(), e.Metric.Key())
}

// Normalize maps a raw metric value to a 0-100 score against the
// calibrated distribution for (tier, metric). Values at or below the
// lowest calibration point score 0, at or above the highest score 100,
// and in between the percentile rank is linearly interpolated. Metrics
// where high raw means bad (pest risk, growth conflicts) are flipped.
// A missing entry falls back to a neutral 50 with a logged warning.
func (t *Table) Normalize(tier climate.Tier, m metrics.Metric, raw float64) float64 {
	e, ok := t.Entry(tier, m)
	if !ok {
		err := &MissingEntryError{Tier: tier, Metric: m}
		log.Printf("warning: %v, using neutral %.0f", err, neutralScore)
		return neutralScore
	}

	pct := e.percentile(raw)
	if m.Inverted() {
		return 100 - pct
	}
	return pct
}

// percentile converts a raw value to its interpolated percentile rank
// within the entry, clamped to [0, 100] at the calibration extremes.
func (e Entry) percentile(raw float64) float64 {
	if raw <= e[0] {
		return 0
	}
	if raw >= e[NumRanks-1] {
		return 100
	}
	for i := 0; i < NumRanks-1; i++ {
		lo, hi := e[i], e[i+1]
		if raw < lo || raw > hi {
			continue
		}
		if hi == lo {
			return float64(ranks[i])
		}
		frac := (raw - lo) / (hi - lo)
		return float64(ranks[i]) + frac*float64(ranks[i+1]-ranks[i])
	}
	return 100
}
