package climate

import (
	"fmt"
	"strings"
)

// Membership pairs a plant with its tier memberships for the
// compatibility check.
type Membership struct {
	PlantID        string
	ScientificName string
	Tiers          TierSet
}

// maxReportedPlants caps how many per-plant memberships an
// IncompatibleError carries for diagnostics.
const maxReportedPlants = 3

// IncompatibleError reports a guild with no shared climate tier, or a
// plant with no tier data at all.
type IncompatibleError struct {
	// Plants holds per-plant tier memberships, at most maxReportedPlants
	// entries, preferring plants with missing tier data.
	Plants []Membership
}

func (e *IncompatibleError) Error() string {
	parts := make([]string, len(e.Plants))
	for i, m := range e.Plants {
		parts[i] = fmt.Sprintf("%s: %s", m.ScientificName, m.Tiers)
	}
	return "no shared climate tier: " + strings.Join(parts, "; ")
}

// SharedTiers intersects tier memberships across all plants. It fails if
// any plant has no tier data or if the intersection is empty. The returned
// set is diagnostic detail only; normalization stays keyed by the tier the
// scorer was configured for.
func SharedTiers(members []Membership) (TierSet, error) {
	if len(members) == 0 {
		return 0, &IncompatibleError{}
	}

	for _, m := range members {
		if m.Tiers.Empty() {
			return 0, &IncompatibleError{Plants: reportable(members)}
		}
	}

	shared := members[0].Tiers
	for _, m := range members[1:] {
		shared = shared.Intersect(m.Tiers)
	}
	if shared.Empty() {
		return 0, &IncompatibleError{Plants: reportable(members)}
	}
	return shared, nil
}

// reportable picks up to maxReportedPlants memberships, listing plants
// with no tier data first since they are the likeliest culprit.
func reportable(members []Membership) []Membership {
	out := make([]Membership, 0, maxReportedPlants)
	for _, m := range members {
		if m.Tiers.Empty() {
			out = append(out, m)
			if len(out) == maxReportedPlants {
				return out
			}
		}
	}
	for _, m := range members {
		if !m.Tiers.Empty() {
			out = append(out, m)
			if len(out) == maxReportedPlants {
				return out
			}
		}
	}
	return out
}
