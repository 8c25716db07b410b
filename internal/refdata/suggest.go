package refdata

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit known plant IDs or scientific names close
// to the unresolved input, for did-you-mean diagnostics on lookup
// failures. Matching is case-insensitive edit distance with a
// length-scaled cutoff.
func (d *Dataset) Suggest(input string, limit int) []string {
	if limit <= 0 || input == "" {
		return nil
	}
	needle := strings.ToLower(input)

	type candidate struct {
		label string
		dist  int
	}
	var found []candidate

	consider := func(label string) {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(label))
		if dist > editLimit(len(label)) {
			return
		}
		found = append(found, candidate{label: label, dist: dist})
	}

	for _, id := range d.ids {
		consider(id)
		consider(d.plants[id].ScientificName)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].label < found[j].label
	})

	seen := make(map[string]bool, limit)
	var out []string
	for _, c := range found {
		if seen[c.label] {
			continue
		}
		seen[c.label] = true
		out = append(out, c.label)
		if len(out) == limit {
			break
		}
	}
	return out
}

// editLimit scales the accepted edit distance with candidate length.
func editLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
