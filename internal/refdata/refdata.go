// Package refdata loads the read-only reference datasets the scoring
// engine consumes: plant trait records, per-plant organism and fungal
// profiles, and the biocontrol lookup tables. Everything is loaded once
// into an immutable snapshot; a single snapshot may serve concurrent
// scoring calls.
package refdata

import (
	"sort"

	"github.com/johns/guildcraft/internal/climate"
)

// Set is a deduplicated collection of organism names.
type Set map[string]struct{}

// NewSet builds a set from names, dropping empties.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the cardinality; safe on a nil set.
func (s Set) Len() int { return len(s) }

// Union returns a new set with the members of both.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range o {
		out[n] = struct{}{}
	}
	return out
}

// Names returns the members sorted, for deterministic diagnostics.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// CSR holds Grime's Competitor/Stress-tolerator/Ruderal percentages.
// Source data does not force the three to sum to 100.
type CSR struct {
	C float64
	S float64
	R float64
}

// Plant is one taxon record from the plant reference dataset. Optional
// traits are pointers; nil means the source had no value.
type Plant struct {
	ID             string
	ScientificName string
	Family         string
	Genus          string

	HeightM    *float64
	GrowthForm string
	CSR        *CSR
	LightPref  *float64
	SoilPH     *float64

	Tiers climate.TierSet

	// TreeTip is the plant's label in the shared phylogenetic tree;
	// empty when the taxon is not placed.
	TreeTip string
}

// OrganismProfile holds a plant's associated organisms partitioned by
// ecological role. Predator sets are split by relationship provenance.
type OrganismProfile struct {
	Herbivores     Set
	Pollinators    Set
	FlowerVisitors Set

	PredatorsDirectHost Set
	PredatorsGeneral    Set
	PredatorsSpatial    Set
}

// AllPredators unions the three provenance-typed predator sets.
func (p OrganismProfile) AllPredators() Set {
	return p.PredatorsDirectHost.Union(p.PredatorsGeneral).Union(p.PredatorsSpatial)
}

// FungalProfile holds a plant's associated fungi partitioned by
// functional guild. PathogenicHostSpecific is always a subset of
// Pathogenic (enforced at load).
type FungalProfile struct {
	Pathogenic             Set
	PathogenicHostSpecific Set
	AMF                    Set
	EMF                    Set
	Mycoparasitic          Set
	Entomopathogenic       Set
	Endophytic             Set
	Saprotrophic           Set
}

// Beneficial unions the four beneficial guilds (AMF, EMF, endophytic,
// saprotrophic).
func (f FungalProfile) Beneficial() Set {
	return f.AMF.Union(f.EMF).Union(f.Endophytic).Union(f.Saprotrophic)
}

// Biocontrol holds the three static knowledge-base lookups.
type Biocontrol struct {
	HerbivorePredators  map[string]Set // herbivore -> known animal predators
	HerbivoreEntomopath map[string]Set // herbivore -> known entomopathogenic fungi
	PathogenAntagonists map[string]Set // pathogen -> known fungal antagonists
}

// Dataset is the immutable reference snapshot the scorer and the
// calibration sampler share. Do not mutate after Load.
type Dataset struct {
	plants    map[string]Plant
	organisms map[string]OrganismProfile
	fungi     map[string]FungalProfile
	lookup    Biocontrol

	// ids sorted, for deterministic pools and suggestions
	ids []string
}

// NewDataset assembles a snapshot from already-loaded records, for hosts
// that source reference data elsewhere. The maps are taken over by the
// dataset and must not be mutated afterwards.
func NewDataset(plants []Plant, organisms map[string]OrganismProfile, fungi map[string]FungalProfile, lookup Biocontrol) *Dataset {
	d := &Dataset{
		plants:    make(map[string]Plant, len(plants)),
		organisms: organisms,
		fungi:     fungi,
		lookup:    lookup,
	}
	if d.organisms == nil {
		d.organisms = make(map[string]OrganismProfile)
	}
	if d.fungi == nil {
		d.fungi = make(map[string]FungalProfile)
	}
	for _, p := range plants {
		d.plants[p.ID] = p
		d.ids = append(d.ids, p.ID)
	}
	sort.Strings(d.ids)
	return d
}

// Plant looks up a plant record by taxon ID.
func (d *Dataset) Plant(id string) (Plant, bool) {
	p, ok := d.plants[id]
	return p, ok
}

// Organisms returns the organism profile for a plant. Plants absent from
// the organism dataset get an empty profile, not an error.
func (d *Dataset) Organisms(id string) OrganismProfile {
	return d.organisms[id]
}

// Fungi returns the fungal guild profile for a plant, empty if absent.
func (d *Dataset) Fungi(id string) FungalProfile {
	return d.fungi[id]
}

// Lookup returns the biocontrol knowledge base.
func (d *Dataset) Lookup() Biocontrol { return d.lookup }

// Len returns the number of plant records.
func (d *Dataset) Len() int { return len(d.plants) }

// TierPool returns the IDs of all plants belonging to the tier, sorted.
func (d *Dataset) TierPool(t climate.Tier) []string {
	var pool []string
	for _, id := range d.ids {
		if d.plants[id].Tiers.Has(t) {
			pool = append(pool, id)
		}
	}
	return pool
}

// IDs returns all plant IDs, sorted.
func (d *Dataset) IDs() []string { return d.ids }
