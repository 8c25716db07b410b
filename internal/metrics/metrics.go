// Package metrics implements the seven guild compatibility metrics.
// Each calculator is a pure function over the guild's plant records and
// the shared reference snapshot; it returns the raw metric value plus a
// typed diagnostic detail payload. Normalization against calibrated
// percentile tables happens elsewhere.
package metrics

import (
	"fmt"

	"github.com/johns/guildcraft/internal/phylo"
	"github.com/johns/guildcraft/internal/refdata"
)

// Metric identifies one of the seven guild metrics.
type Metric int

const (
	PestIndependence Metric = iota
	GrowthCompatibility
	InsectBiocontrol
	DiseaseSuppression
	BeneficialFungi
	StructuralDiversity
	PollinatorSupport

	numMetrics
)

// NumMetrics is the number of guild metrics.
const NumMetrics = int(numMetrics)

var metricKeys = [numMetrics]string{
	"pest_independence",
	"growth_compatibility",
	"insect_biocontrol",
	"disease_suppression",
	"beneficial_fungi",
	"structural_diversity",
	"pollinator_support",
}

// Key returns the stable identifier used in calibration tables.
func (m Metric) Key() string {
	if m < 0 || m >= numMetrics {
		return fmt.Sprintf("metric(%d)", int(m))
	}
	return metricKeys[m]
}

func (m Metric) String() string { return m.Key() }

// Inverted reports whether a higher raw value means a worse guild, so
// the normalized score is flipped. True for pest risk and growth
// conflict density.
func (m Metric) Inverted() bool {
	return m == PestIndependence || m == GrowthCompatibility
}

// All returns the seven metrics in canonical order.
func All() []Metric {
	out := make([]Metric, numMetrics)
	for i := range out {
		out[i] = Metric(i)
	}
	return out
}

// ParseMetric resolves a calibration-table key back to its metric.
func ParseMetric(key string) (Metric, error) {
	for i, k := range metricKeys {
		if k == key {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric key %q", key)
}

// MissingTraitError reports a plant lacking a trait a metric cannot do
// without. Scoring treats it as fatal; calibration sampling discards
// the draw and moves on.
type MissingTraitError struct {
	PlantID string
	Trait   string
}

func (e *MissingTraitError) Error() string {
	return fmt.Sprintf("plant %s: missing required trait %q", e.PlantID, e.Trait)
}

// Inputs bundles what the calculators consume: the resolved guild
// plants, the reference snapshot, and the phylogenetic diversity
// calculator.
type Inputs struct {
	Plants []refdata.Plant
	Data   *refdata.Dataset
	PD     phylo.Calculator
}

// Details carries the per-metric diagnostic payloads of one computation.
type Details struct {
	Pest       PestDetail
	Growth     GrowthDetail
	Biocontrol BiocontrolDetail
	Disease    DiseaseDetail
	Fungal     FungalNetworkDetail
	Structure  StructureDetail
	Pollinator PollinatorDetail
}

// Raw holds the seven raw metric values, indexed by Metric, plus their
// details.
type Raw struct {
	Values  [numMetrics]float64
	Details Details
}

// ComputeAll runs all seven calculators over the guild. Scoring and
// calibration sampling share this path so their raw distributions
// match.
func ComputeAll(in Inputs) (Raw, error) {
	var out Raw
	var err error

	out.Values[PestIndependence], out.Details.Pest, err = PestRisk(in.Plants, in.PD)
	if err != nil {
		return Raw{}, err
	}
	out.Values[GrowthCompatibility], out.Details.Growth, err = GrowthConflicts(in.Plants)
	if err != nil {
		return Raw{}, err
	}
	out.Values[InsectBiocontrol], out.Details.Biocontrol = Biocontrol(in.Plants, in.Data)
	out.Values[DiseaseSuppression], out.Details.Disease = PathogenControl(in.Plants, in.Data)
	out.Values[BeneficialFungi], out.Details.Fungal = FungalNetworks(in.Plants, in.Data)
	out.Values[StructuralDiversity], out.Details.Structure = Stratification(in.Plants)
	out.Values[PollinatorSupport], out.Details.Pollinator = SharedPollinators(in.Plants, in.Data)
	return out, nil
}
