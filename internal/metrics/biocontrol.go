package metrics

import "github.com/johns/guildcraft/internal/refdata"

const (
	// generalistFungiWeight credits entomopathogenic fungi on a
	// neighbour plant even without a species-level herbivore match.
	generalistFungiWeight = 0.2

	// biocontrolScale was fixed during percentile calibration.
	biocontrolScale = 20.0

	maxMechanisms     = 10
	maxAgentsReported = 3
)

// BiocontrolMechanism records one concrete herbivore-control pathway
// found between two guild plants.
type BiocontrolMechanism struct {
	Kind         string // "animal_predator" or "fungal_parasite"
	Herbivore    string
	HostPlant    string // plant carrying the herbivore
	ControlPlant string // plant supplying the control agent
	Agents       []string
}

// BiocontrolDetail explains the insect biocontrol computation.
type BiocontrolDetail struct {
	PredatorMatches  int
	FungalMatches    int
	GeneralistCredit float64
	Mechanisms       []BiocontrolMechanism
}

// Biocontrol scores cross-plant insect pest control. For every ordered
// plant pair (A hosts herbivores, B supplies control agents) it credits
// three mechanisms: B's predators known to hunt A's herbivores, B's
// entomopathogenic fungi known to parasitize them, and a small
// generalist credit for any entomopathogenic fungi B carries at all.
func Biocontrol(plants []refdata.Plant, d *refdata.Dataset) (float64, BiocontrolDetail) {
	var detail BiocontrolDetail
	lookup := d.Lookup()
	var total float64

	for _, a := range plants {
		herbivores := d.Organisms(a.ID).Herbivores
		if herbivores.Len() == 0 {
			continue
		}

		for _, b := range plants {
			if a.ID == b.ID {
				continue
			}
			predatorsB := d.Organisms(b.ID).AllPredators()
			entomoB := d.Fungi(b.ID).Entomopathogenic

			// Sorted iteration keeps float accumulation and mechanism
			// output deterministic across runs.
			for _, herbivore := range herbivores.Names() {
				if known := lookup.HerbivorePredators[herbivore]; known.Len() > 0 {
					matching := intersect(predatorsB, known)
					if len(matching) > 0 {
						total += float64(len(matching))
						detail.PredatorMatches += len(matching)
						detail.addMechanism(BiocontrolMechanism{
							Kind:         "animal_predator",
							Herbivore:    herbivore,
							HostPlant:    a.ID,
							ControlPlant: b.ID,
							Agents:       clip(matching, maxAgentsReported),
						})
					}
				}

				if known := lookup.HerbivoreEntomopath[herbivore]; known.Len() > 0 {
					matching := intersect(entomoB, known)
					if len(matching) > 0 {
						total += float64(len(matching))
						detail.FungalMatches += len(matching)
						detail.addMechanism(BiocontrolMechanism{
							Kind:         "fungal_parasite",
							Herbivore:    herbivore,
							HostPlant:    a.ID,
							ControlPlant: b.ID,
							Agents:       clip(matching, maxAgentsReported),
						})
					}
				}
			}

			if entomoB.Len() > 0 {
				credit := float64(entomoB.Len()) * generalistFungiWeight
				total += credit
				detail.GeneralistCredit += credit
			}
		}
	}

	maxPairs := len(plants) * (len(plants) - 1)
	if maxPairs == 0 {
		return 0, detail
	}
	return total / float64(maxPairs) * biocontrolScale, detail
}

func (d *BiocontrolDetail) addMechanism(m BiocontrolMechanism) {
	if len(d.Mechanisms) < maxMechanisms {
		d.Mechanisms = append(d.Mechanisms, m)
	}
}

// intersect returns the sorted members present in both sets.
func intersect(a, b refdata.Set) []string {
	if a.Len() == 0 || b.Len() == 0 {
		return nil
	}
	var out []string
	for _, name := range a.Names() {
		if b.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

func clip(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
