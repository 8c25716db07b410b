// Package scorer orchestrates guild scoring: it resolves plant IDs
// against the reference snapshot, applies the climate veto, runs the
// seven metric calculators, normalizes the raw values against the
// calibrated percentile tables, and assembles the final result.
package scorer

import (
	"fmt"

	"github.com/johns/guildcraft/internal/calibration"
	"github.com/johns/guildcraft/internal/climate"
	"github.com/johns/guildcraft/internal/metrics"
	"github.com/johns/guildcraft/internal/phylo"
	"github.com/johns/guildcraft/internal/refdata"
)

const suggestionLimit = 3

// Scorer scores guilds against one immutable reference snapshot and
// one calibration table, keyed to a single climate tier. It holds no
// per-call state, so one instance may serve concurrent Score calls.
type Scorer struct {
	data  *refdata.Dataset
	table *calibration.Table
	pd    phylo.Calculator
	tier  climate.Tier
}

// New assembles a scorer. The tier selects which calibrated
// distributions normalize raw values.
func New(data *refdata.Dataset, table *calibration.Table, pd phylo.Calculator, tier climate.Tier) *Scorer {
	return &Scorer{data: data, table: table, pd: pd, tier: tier}
}

// PHCompat buckets the guild's soil-pH spread.
type PHCompat int

const (
	PHNoData PHCompat = iota
	PHCompatible
	PHMinor
	PHModerate
	PHStrong
)

func (p PHCompat) String() string {
	switch p {
	case PHCompatible:
		return "compatible"
	case PHMinor:
		return "minor incompatibility"
	case PHModerate:
		return "moderate incompatibility"
	case PHStrong:
		return "strong incompatibility"
	default:
		return "no data"
	}
}

// Flags carries the non-scoring advisory signals.
type Flags struct {
	// NitrogenFixers counts legumes in the guild.
	NitrogenFixers int

	SoilPH      PHCompat
	SoilPHRange float64
}

// Result is the complete outcome of one scoring call.
type Result struct {
	// Overall is the unweighted mean of the seven normalized metrics.
	Overall float64

	RawValues  [metrics.NumMetrics]float64
	Normalized [metrics.NumMetrics]float64
	Details    metrics.Details

	// SharedTiers is the guild's climate-tier intersection, diagnostic
	// only; normalization stays keyed to the configured tier.
	SharedTiers climate.TierSet

	Flags Flags
}

// Score scores the guild identified by plantIDs. Duplicate IDs are
// collapsed preserving order. Any unresolved ID, empty climate-tier
// intersection, missing mandatory trait, or phylogeny adapter failure
// aborts the call; no partial result is returned.
func (s *Scorer) Score(plantIDs []string) (*Result, error) {
	ids := dedupe(plantIDs)
	if len(ids) < 2 {
		return nil, fmt.Errorf("need at least 2 distinct plant IDs, got %d", len(ids))
	}

	plants := make([]refdata.Plant, 0, len(ids))
	var missing []string
	for _, id := range ids {
		p, ok := s.data.Plant(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		plants = append(plants, p)
	}
	if len(missing) > 0 {
		err := &MissingPlantError{IDs: missing, Suggestions: make(map[string][]string)}
		for _, id := range missing {
			if sugg := s.data.Suggest(id, suggestionLimit); len(sugg) > 0 {
				err.Suggestions[id] = sugg
			}
		}
		return nil, err
	}

	members := make([]climate.Membership, len(plants))
	for i, p := range plants {
		members[i] = climate.Membership{
			PlantID:        p.ID,
			ScientificName: p.ScientificName,
			Tiers:          p.Tiers,
		}
	}
	shared, err := climate.SharedTiers(members)
	if err != nil {
		return nil, err
	}

	raw, err := metrics.ComputeAll(metrics.Inputs{Plants: plants, Data: s.data, PD: s.pd})
	if err != nil {
		return nil, err
	}

	result := &Result{
		RawValues:   raw.Values,
		Details:     raw.Details,
		SharedTiers: shared,
		Flags:       computeFlags(plants),
	}

	var sum float64
	for _, m := range metrics.All() {
		norm := s.table.Normalize(s.tier, m, raw.Values[m])
		result.Normalized[m] = norm
		sum += norm
	}
	result.Overall = sum / float64(metrics.NumMetrics)
	return result, nil
}

// Tier returns the climate tier normalization is keyed to.
func (s *Scorer) Tier() climate.Tier { return s.tier }

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Soil-pH spread buckets (pH units across the guild's indicator values).
const (
	phCompatibleRange = 1.0
	phMinorRange      = 1.5
	phModerateRange   = 2.5
)

func computeFlags(plants []refdata.Plant) Flags {
	var f Flags
	for _, p := range plants {
		if p.Family == "Fabaceae" || p.Family == "Leguminosae" {
			f.NitrogenFixers++
		}
	}

	var values []float64
	for _, p := range plants {
		if p.SoilPH != nil {
			values = append(values, *p.SoilPH)
		}
	}
	if len(values) < 2 {
		f.SoilPH = PHNoData
		return f
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	f.SoilPHRange = max - min
	switch {
	case f.SoilPHRange <= phCompatibleRange:
		f.SoilPH = PHCompatible
	case f.SoilPHRange <= phMinorRange:
		f.SoilPH = PHMinor
	case f.SoilPHRange <= phModerateRange:
		f.SoilPH = PHModerate
	default:
		f.SoilPH = PHStrong
	}
	return f
}
