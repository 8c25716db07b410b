package metrics

import "github.com/johns/guildcraft/internal/refdata"

// diseaseScale was fixed during percentile calibration.
const diseaseScale = 10.0

// DiseaseMechanism records one pathogen-suppression pathway between two
// guild plants.
type DiseaseMechanism struct {
	Kind            string // "specific_antagonist" or "general_mycoparasite"
	Pathogen        string // specific matches only
	VulnerablePlant string
	ControlPlant    string
	PathogenCount   int // general mechanism only
	Agents          []string
}

// DiseaseDetail explains the disease suppression computation.
type DiseaseDetail struct {
	SpecificMatches  int
	GeneralistCredit float64
	Mechanisms       []DiseaseMechanism
}

// PathogenControl scores fungal disease suppression. For every ordered
// plant pair where A carries pathogenic fungi and B carries
// mycoparasitic fungi, specific pathogen-antagonist matches score 1.0
// each; additionally every mycoparasite B carries scores 1.0 as a
// general antagonist-presence signal. Specific matches are rare in
// practice since the antagonist knowledge base is sparse; the general
// mechanism carries the metric.
func PathogenControl(plants []refdata.Plant, d *refdata.Dataset) (float64, DiseaseDetail) {
	var detail DiseaseDetail
	lookup := d.Lookup()
	var total float64

	for _, a := range plants {
		pathogens := d.Fungi(a.ID).Pathogenic
		if pathogens.Len() == 0 {
			continue
		}

		for _, b := range plants {
			if a.ID == b.ID {
				continue
			}
			mycoparasitesB := d.Fungi(b.ID).Mycoparasitic
			if mycoparasitesB.Len() == 0 {
				continue
			}

			for _, pathogen := range pathogens.Names() {
				if known := lookup.PathogenAntagonists[pathogen]; known.Len() > 0 {
					matching := intersect(mycoparasitesB, known)
					if len(matching) > 0 {
						total += float64(len(matching))
						detail.SpecificMatches += len(matching)
						detail.addMechanism(DiseaseMechanism{
							Kind:            "specific_antagonist",
							Pathogen:        pathogen,
							VulnerablePlant: a.ID,
							ControlPlant:    b.ID,
							Agents:          clip(matching, maxAgentsReported),
						})
					}
				}
			}

			credit := float64(mycoparasitesB.Len())
			total += credit
			detail.GeneralistCredit += credit
			detail.addMechanism(DiseaseMechanism{
				Kind:            "general_mycoparasite",
				VulnerablePlant: a.ID,
				ControlPlant:    b.ID,
				PathogenCount:   pathogens.Len(),
				Agents:          clip(mycoparasitesB.Names(), 5),
			})
		}
	}

	maxPairs := len(plants) * (len(plants) - 1)
	if maxPairs == 0 {
		return 0, detail
	}
	return total / float64(maxPairs) * diseaseScale, detail
}

func (d *DiseaseDetail) addMechanism(m DiseaseMechanism) {
	if len(d.Mechanisms) < maxMechanisms {
		d.Mechanisms = append(d.Mechanisms, m)
	}
}
