package metrics

import (
	"sort"

	"github.com/johns/guildcraft/internal/refdata"
)

const (
	// canopyGap is the height difference (metres) above which two
	// plants occupy distinct canopy layers.
	canopyGap = 2.0

	stratificationWeight = 0.7
	formWeight           = 0.3

	// maxGrowthForms caps form diversity at the six recognized growth
	// forms (herb, graminoid, shrub, tree, vine, fern).
	maxGrowthForms = 6
)

// StructureDetail explains the structural diversity computation.
type StructureDetail struct {
	ValidCredit   float64
	InvalidCredit float64
	Quality       float64
	GrowthForms   int
}

// Stratification scores vertical layering validated by light
// compatibility. For each pair of plants more than one canopy layer
// apart, the shorter plant earns height-difference credit scaled by how
// well it tolerates shade; a sun-demanding understory plant would be
// shaded out and counts against the guild instead. A second component
// rewards growth-form variety.
func Stratification(plants []refdata.Plant) (float64, StructureDetail) {
	var detail StructureDetail

	var withHeight []refdata.Plant
	for _, p := range plants {
		if p.HeightM != nil {
			withHeight = append(withHeight, p)
		}
	}
	sort.Slice(withHeight, func(i, j int) bool {
		return *withHeight[i].HeightM < *withHeight[j].HeightM
	})

	for i := 0; i < len(withHeight); i++ {
		for j := i + 1; j < len(withHeight); j++ {
			short, tall := withHeight[i], withHeight[j]
			diff := *tall.HeightM - *short.HeightM
			if diff <= canopyGap {
				continue
			}
			switch light := short.LightPref; {
			case light == nil:
				detail.ValidCredit += diff * 0.5
			case *light < shadeLight:
				detail.ValidCredit += diff
			case *light > sunLight:
				detail.InvalidCredit += diff
			default:
				detail.ValidCredit += diff * 0.6
			}
		}
	}

	if total := detail.ValidCredit + detail.InvalidCredit; total > 0 {
		detail.Quality = detail.ValidCredit / total
	}

	forms := make(map[string]struct{})
	for _, p := range plants {
		if p.GrowthForm != "" {
			forms[p.GrowthForm] = struct{}{}
		}
	}
	detail.GrowthForms = len(forms)
	if detail.GrowthForms > maxGrowthForms {
		detail.GrowthForms = maxGrowthForms
	}

	formDiversity := 0.0
	if detail.GrowthForms > 0 {
		formDiversity = float64(detail.GrowthForms-1) / float64(maxGrowthForms-1)
	}

	raw := stratificationWeight*detail.Quality + formWeight*formDiversity
	return raw, detail
}
