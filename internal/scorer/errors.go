package scorer

import (
	"fmt"
	"strings"
)

// MissingPlantError reports guild IDs that resolve to no known plant.
// Suggestions carries did-you-mean candidates per unresolved ID.
type MissingPlantError struct {
	IDs         []string
	Suggestions map[string][]string
}

func (e *MissingPlantError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unknown plant IDs: %s", strings.Join(e.IDs, ", "))
	for _, id := range e.IDs {
		if s := e.Suggestions[id]; len(s) > 0 {
			fmt.Fprintf(&b, "; %s: did you mean %s?", id, strings.Join(s, ", "))
		}
	}
	return b.String()
}
