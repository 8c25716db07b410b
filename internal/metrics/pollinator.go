package metrics

import (
	"sort"

	"github.com/johns/guildcraft/internal/refdata"
)

// PollinatorDetail explains the pollinator support computation.
type PollinatorDetail struct {
	// Shared maps each pollinator visiting at least two guild plants
	// to its host-plant count.
	Shared map[string]int
}

// SharedPollinators scores pollinator support. Pollinators and flower
// visitors are pooled per plant; each organism visiting two or more
// guild plants contributes quadratically in the fraction of the guild
// it covers, rewarding broadly shared pollinator communities.
func SharedPollinators(plants []refdata.Plant, d *refdata.Dataset) (float64, PollinatorDetail) {
	n := len(plants)
	detail := PollinatorDetail{Shared: make(map[string]int)}
	if n == 0 {
		return 0, detail
	}

	visitCounts := make(map[string]int)
	for _, p := range plants {
		org := d.Organisms(p.ID)
		for organism := range org.Pollinators.Union(org.FlowerVisitors) {
			visitCounts[organism]++
		}
	}

	var shared []string
	for organism, count := range visitCounts {
		if count >= 2 {
			shared = append(shared, organism)
			detail.Shared[organism] = count
		}
	}
	sort.Strings(shared)

	var total float64
	for _, organism := range shared {
		ratio := float64(visitCounts[organism]) / float64(n)
		total += ratio * ratio
	}
	return total, detail
}
