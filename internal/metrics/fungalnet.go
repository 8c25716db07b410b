package metrics

import (
	"sort"

	"github.com/johns/guildcraft/internal/refdata"
)

const (
	networkWeight  = 0.6
	coverageWeight = 0.4
)

// FungalNetworkDetail explains the beneficial fungi computation.
type FungalNetworkDetail struct {
	// SharedFungi maps each fungus hosted by at least two guild plants
	// to its host count.
	SharedFungi map[string]int
	NetworkSum  float64
	Coverage    float64
}

// FungalNetworks scores mycorrhizal and other beneficial fungal
// connectivity. A fungus hosted by several guild plants can link them
// into a common network; plants hosting any beneficial fungus at all
// contribute to coverage.
func FungalNetworks(plants []refdata.Plant, d *refdata.Dataset) (float64, FungalNetworkDetail) {
	n := len(plants)
	if n == 0 {
		return 0, FungalNetworkDetail{}
	}

	hostCounts := make(map[string]int)
	covered := 0
	for _, p := range plants {
		beneficial := d.Fungi(p.ID).Beneficial()
		if beneficial.Len() > 0 {
			covered++
		}
		for fungus := range beneficial {
			hostCounts[fungus]++
		}
	}

	detail := FungalNetworkDetail{SharedFungi: make(map[string]int)}

	shared := make([]string, 0, len(hostCounts))
	for fungus, count := range hostCounts {
		if count >= 2 {
			shared = append(shared, fungus)
			detail.SharedFungi[fungus] = count
		}
	}
	sort.Strings(shared)
	for _, fungus := range shared {
		detail.NetworkSum += float64(hostCounts[fungus]) / float64(n)
	}

	detail.Coverage = float64(covered) / float64(n)
	return networkWeight*detail.NetworkSum + coverageWeight*detail.Coverage, detail
}
