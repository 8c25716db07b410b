package metrics

import "github.com/johns/guildcraft/internal/refdata"

// Grime CSR strategy thresholds: a plant above a threshold is treated
// as committed to that strategy for conflict analysis.
const (
	highCThreshold = 60.0
	highSThreshold = 60.0
	highRThreshold = 50.0
)

// Ellenberg-style light preference cut points. Below shadeLight a plant
// tolerates deep shade; above sunLight it demands full sun.
const (
	shadeLight   = 3.2
	sunLight     = 7.47
	defaultLight = 5.0
)

// GrowthDetail breaks the conflict total down by pairing type.
type GrowthDetail struct {
	HighC int
	HighS int
	HighR int

	CCConflicts float64
	CSConflicts float64
	CRConflicts float64
	RRConflicts float64
}

// Total sums the four conflict accumulators.
func (d GrowthDetail) Total() float64 {
	return d.CCConflicts + d.CSConflicts + d.CRConflicts + d.RRConflicts
}

// GrowthConflicts scores competitive strategy clashes between guild
// plants. Two strong competitors fight for the same resources; a
// competitor suppresses stress-tolerators unless the stress-tolerator
// is shade-adapted; ruderals lose to competitors and churn against each
// other. Raw value is conflict units per ordered pair; higher is worse.
// CSR data is mandatory: a plant without it yields a MissingTraitError.
func GrowthConflicts(plants []refdata.Plant) (float64, GrowthDetail, error) {
	for _, p := range plants {
		if p.CSR == nil {
			return 0, GrowthDetail{}, &MissingTraitError{PlantID: p.ID, Trait: "csr"}
		}
	}

	var highC, highS, highR []refdata.Plant
	for _, p := range plants {
		if p.CSR.C > highCThreshold {
			highC = append(highC, p)
		}
		if p.CSR.S > highSThreshold {
			highS = append(highS, p)
		}
		if p.CSR.R > highRThreshold {
			highR = append(highR, p)
		}
	}

	d := GrowthDetail{HighC: len(highC), HighS: len(highS), HighR: len(highR)}

	// Competitor vs competitor: full conflict per unordered pair.
	if len(highC) >= 2 {
		pairs := len(highC) * (len(highC) - 1) / 2
		d.CCConflicts = float64(pairs)
	}

	// Competitor vs stress-tolerator: weight depends on the
	// stress-tolerator's light preference. Shade-adapted plants escape
	// the competitor's canopy entirely.
	for _, c := range highC {
		for _, s := range highS {
			if c.ID == s.ID {
				continue
			}
			light := defaultLight
			if s.LightPref != nil {
				light = *s.LightPref
			}
			switch {
			case light < shadeLight:
				// no conflict
			case light > sunLight:
				d.CSConflicts += 0.9
			default:
				d.CSConflicts += 0.6
			}
		}
	}

	// Competitor vs ruderal: ruderals get crowded out.
	for _, c := range highC {
		for _, r := range highR {
			if c.ID == r.ID {
				continue
			}
			d.CRConflicts += 0.8
		}
	}

	// Ruderal vs ruderal: mild disturbance-churn conflict per
	// unordered pair.
	if len(highR) >= 2 {
		pairs := len(highR) * (len(highR) - 1) / 2
		d.RRConflicts = float64(pairs) * 0.3
	}

	maxPairs := len(plants) * (len(plants) - 1)
	if maxPairs == 0 {
		maxPairs = 1
	}
	return d.Total() / float64(maxPairs), d, nil
}
