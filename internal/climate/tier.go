package climate

import (
	"fmt"
	"strings"
)

// Tier is one of the six coarse Köppen climate groupings used to gate
// plant co-occurrence plausibility.
type Tier int

const (
	Tropical Tier = iota
	Mediterranean
	HumidTemperate
	Continental
	BorealPolar
	Arid

	numTiers = 6
)

// keys match the column/key naming used by the reference datasets and
// calibration files.
var tierKeys = [numTiers]string{
	"tier_1_tropical",
	"tier_2_mediterranean",
	"tier_3_humid_temperate",
	"tier_4_continental",
	"tier_5_boreal_polar",
	"tier_6_arid",
}

// Key returns the dataset key for the tier, e.g. "tier_3_humid_temperate".
func (t Tier) Key() string {
	if t < 0 || int(t) >= numTiers {
		return fmt.Sprintf("tier_invalid_%d", int(t))
	}
	return tierKeys[t]
}

func (t Tier) String() string { return t.Key() }

// ParseTier accepts either the full dataset key ("tier_3_humid_temperate")
// or the bare name ("humid_temperate").
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, key := range tierKeys {
		if s == key {
			return Tier(i), nil
		}
		// Strip the "tier_N_" prefix for the short form.
		if idx := strings.IndexByte(key[5:], '_'); idx >= 0 && s == key[5+idx+1:] {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown climate tier %q", s)
}

// Tiers lists all six tiers in dataset order.
func Tiers() []Tier {
	out := make([]Tier, numTiers)
	for i := range out {
		out[i] = Tier(i)
	}
	return out
}

// TierSet is a membership bitset over the six tiers.
type TierSet uint8

// NewTierSet builds a set from individual tiers.
func NewTierSet(tiers ...Tier) TierSet {
	var s TierSet
	for _, t := range tiers {
		s = s.With(t)
	}
	return s
}

// With returns the set with t added.
func (s TierSet) With(t Tier) TierSet {
	if t < 0 || int(t) >= numTiers {
		return s
	}
	return s | 1<<uint(t)
}

// Has reports membership of t.
func (s TierSet) Has(t Tier) bool { return s&(1<<uint(t)) != 0 }

// Empty reports whether no tier is set.
func (s TierSet) Empty() bool { return s == 0 }

// Intersect returns the tiers present in both sets.
func (s TierSet) Intersect(o TierSet) TierSet { return s & o }

// Tiers returns the members in dataset order.
func (s TierSet) Tiers() []Tier {
	var out []Tier
	for i := 0; i < numTiers; i++ {
		if s.Has(Tier(i)) {
			out = append(out, Tier(i))
		}
	}
	return out
}

func (s TierSet) String() string {
	members := s.Tiers()
	if len(members) == 0 {
		return "none"
	}
	keys := make([]string, len(members))
	for i, t := range members {
		keys[i] = t.Key()
	}
	return strings.Join(keys, ",")
}
