// Package phylo provides the phylogenetic-diversity calculation behind
// the pest/pathogen-independence metric. The Calculator interface keeps
// the concrete implementation swappable; the in-process implementation
// walks a shared Newick tree.
package phylo

// Calculator computes Faith's phylogenetic diversity (the sum of branch
// lengths of the minimal subtree spanning a set of tips) for a set of
// tree tip labels. Implementations must be safe for concurrent use.
type Calculator interface {
	PD(tips []string) (float64, error)
}
