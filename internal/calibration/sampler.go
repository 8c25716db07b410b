package calibration

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/johns/guildcraft/internal/climate"
	"github.com/johns/guildcraft/internal/metrics"
	"github.com/johns/guildcraft/internal/phylo"
	"github.com/johns/guildcraft/internal/refdata"
)

// Type selects the guild size a calibration run models: plant pairs or
// full seven-plant guilds. Each type gets its own table file.
type Type string

const (
	PairType  Type = "pair"
	GuildType Type = "guild"
)

// GuildSize returns the number of plants drawn per sample.
func (t Type) GuildSize() int {
	if t == PairType {
		return 2
	}
	return 7
}

// ParseType resolves a configuration string to a calibration type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case PairType, GuildType:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown calibration type %q (want pair or guild)", s)
}

// attemptFactor bounds total draws per tier at attemptFactor times the
// target sample count, so a tier whose pool rarely yields complete
// trait data cannot loop forever.
const attemptFactor = 100

// Sampler drives Monte-Carlo guild sampling over the reference
// snapshot and aggregates raw-metric distributions into percentile
// tables.
type Sampler struct {
	Data *refdata.Dataset
	PD   phylo.Calculator

	// Samples is the target number of successful draws per tier.
	Samples int

	// Seed is the base RNG seed. Each (tier, guild size) pair derives
	// its own deterministic seed from it, so runs with the same seed
	// and the same reference data reproduce identical tables.
	Seed int64
}

// Run calibrates every climate tier for the given type and returns the
// assembled table. Tiers whose pools cannot produce a single valid
// sample are skipped with a warning; tiers already calibrated are kept.
func (s *Sampler) Run(typ Type) (*Table, error) {
	if s.Samples <= 0 {
		return nil, fmt.Errorf("calibration sample target must be positive, got %d", s.Samples)
	}
	size := typ.GuildSize()

	table := NewTable()
	for _, tier := range climate.Tiers() {
		values, err := s.sampleTier(tier, size)
		if err != nil {
			return nil, err
		}
		if values == nil {
			continue
		}
		for _, m := range metrics.All() {
			e := percentileEntry(values[m])
			if err := table.Set(tier, m, e); err != nil {
				return nil, err
			}
		}
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("calibration produced no entries for type %s", typ)
	}
	return table, nil
}

// sampleTier draws guilds from one tier's pool until the sample target
// or the attempt cap is reached. A nil map with nil error means the
// tier is unusable and should be skipped.
func (s *Sampler) sampleTier(tier climate.Tier, size int) (map[metrics.Metric][]float64, error) {
	pool := s.Data.TierPool(tier)
	if len(pool) < size {
		log.Printf("warning: tier %s has %d plants, need %d per draw, skipping",
			tier.Key(), len(pool), size)
		return nil, nil
	}

	rng := rand.New(rand.NewSource(s.tierSeed(tier, size)))

	values := make(map[metrics.Metric][]float64, len(metrics.All()))
	for _, m := range metrics.All() {
		values[m] = make([]float64, 0, s.Samples)
	}

	successful := 0
	maxAttempts := attemptFactor * s.Samples
	for attempts := 0; successful < s.Samples && attempts < maxAttempts; attempts++ {
		ids := drawGuild(rng, pool, size)
		plants := make([]refdata.Plant, len(ids))
		for i, id := range ids {
			p, ok := s.Data.Plant(id)
			if !ok {
				return nil, fmt.Errorf("tier pool references unknown plant %s", id)
			}
			plants[i] = p
		}

		raw, err := metrics.ComputeAll(metrics.Inputs{Plants: plants, Data: s.Data, PD: s.PD})
		if err != nil {
			// Incomplete trait data disqualifies the draw, not the run.
			continue
		}
		for _, m := range metrics.All() {
			values[m] = append(values[m], raw.Values[m])
		}
		successful++
	}

	if successful == 0 {
		log.Printf("warning: tier %s produced no valid samples in %d attempts, skipping",
			tier.Key(), maxAttempts)
		return nil, nil
	}
	if successful < s.Samples {
		log.Printf("warning: tier %s reached attempt cap with %d/%d samples",
			tier.Key(), successful, s.Samples)
	}
	return values, nil
}

// tierSeed derives a per-(tier, size) seed so tiers can be calibrated
// in any order, or in parallel, without changing the output.
func (s *Sampler) tierSeed(tier climate.Tier, size int) int64 {
	return s.Seed + int64(size)*1000 + int64(tier)
}

// drawGuild picks size distinct IDs from pool via a partial
// Fisher-Yates shuffle over a scratch copy.
func drawGuild(rng *rand.Rand, pool []string, size int) []string {
	scratch := make([]string, len(pool))
	copy(scratch, pool)
	for i := 0; i < size; i++ {
		j := i + rng.Intn(len(scratch)-i)
		scratch[i], scratch[j] = scratch[j], scratch[i]
	}
	return scratch[:size]
}

// percentileEntry computes the 13 order statistics of the sample via
// linear interpolation between adjacent sorted values.
func percentileEntry(values []float64) Entry {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var e Entry
	for i, rank := range ranks {
		e[i] = interpolatedQuantile(sorted, float64(rank)/100)
	}
	return e
}

// interpolatedQuantile returns the q-quantile (0..1) of a sorted sample
// using the linear rank = q*(n-1) convention.
func interpolatedQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
