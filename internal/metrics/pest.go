package metrics

import (
	"fmt"
	"math"

	"github.com/johns/guildcraft/internal/phylo"
	"github.com/johns/guildcraft/internal/refdata"
)

// pdDecay converts Faith's PD (typically in the hundreds) into a pest
// risk in (0,1] via exp(-k*PD).
const pdDecay = 0.001

// PestDetail explains the pest/pathogen independence computation.
type PestDetail struct {
	FaithsPD   float64
	MappedTips int
	Risk       float64
}

// PestRisk computes shared pest/pathogen risk from the guild's
// phylogenetic diversity: closely related plants share pests, so low PD
// means high risk. A single-plant guild has no diversity and is pinned
// at maximum risk 1.0. Higher raw value is worse.
func PestRisk(plants []refdata.Plant, calc phylo.Calculator) (float64, PestDetail, error) {
	if len(plants) < 2 {
		return 1.0, PestDetail{Risk: 1.0}, nil
	}

	var tips []string
	for _, p := range plants {
		if p.TreeTip != "" {
			tips = append(tips, p.TreeTip)
		}
	}

	pd, err := calc.PD(tips)
	if err != nil {
		return 0, PestDetail{}, fmt.Errorf("phylogenetic diversity adapter: %w", err)
	}

	risk := math.Exp(-pdDecay * pd)
	return risk, PestDetail{FaithsPD: pd, MappedTips: len(tips), Risk: risk}, nil
}
