package phylo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Tree is a rooted phylogenetic tree parsed from Newick text. It is
// immutable after parsing and safe for concurrent PD calls.
type Tree struct {
	root *node
	tips map[string]*node
}

type node struct {
	label    string
	length   float64 // branch length to parent
	parent   *node
	children []*node
}

// LoadTree reads and parses a Newick tree file.
func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	t, err := ParseNewick(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse tree %s: %w", path, err)
	}
	return t, nil
}

// ParseNewick parses a single Newick-format tree. Branch lengths are
// optional and default to 0; internal node labels are accepted and
// ignored for tip lookup.
func ParseNewick(text string) (*Tree, error) {
	p := &parser{input: strings.TrimSpace(text)}
	root, err := p.parseSubtree(nil)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != ';' {
		return nil, fmt.Errorf("offset %d: expected terminating ';'", p.pos)
	}

	t := &Tree{root: root, tips: make(map[string]*node)}
	var walk func(n *node)
	walk = func(n *node) {
		if len(n.children) == 0 {
			if n.label != "" {
				t.tips[n.label] = n
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)

	if len(t.tips) == 0 {
		return nil, fmt.Errorf("tree has no labelled tips")
	}
	return t, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseSubtree(parent *node) (*node, error) {
	p.skipSpace()
	n := &node{parent: parent}

	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		p.pos++ // consume '('
		for {
			child, err := p.parseSubtree(n)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)

			p.skipSpace()
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("offset %d: unterminated clade", p.pos)
			}
			if p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.input[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("offset %d: unexpected %q in clade", p.pos, p.input[p.pos])
		}
	}

	n.label = p.parseLabel()

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ':' {
		p.pos++
		length, err := p.parseLength()
		if err != nil {
			return nil, err
		}
		n.length = length
	}
	return n, nil
}

func (p *parser) parseLabel() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '(', ')', ',', ':', ';', ' ', '\t', '\n', '\r':
			return p.input[start:p.pos]
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseLength() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, fmt.Errorf("offset %d: expected branch length", p.pos)
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("offset %d: bad branch length: %w", start, err)
	}
	return v, nil
}

// Tips returns the number of labelled tips.
func (t *Tree) Tips() int { return len(t.tips) }

// HasTip reports whether label is a tip of the tree.
func (t *Tree) HasTip(label string) bool {
	_, ok := t.tips[label]
	return ok
}

// PD computes Faith's phylogenetic diversity for the given tip labels:
// the sum of branch lengths from each tip up to the set's most recent
// common ancestor, each branch counted once. Labels not present in the
// tree are skipped; fewer than two resolvable tips yields 0.
func (t *Tree) PD(tips []string) (float64, error) {
	var leaves []*node
	seen := make(map[string]bool, len(tips))
	for _, label := range tips {
		if seen[label] {
			continue
		}
		seen[label] = true
		if n, ok := t.tips[label]; ok {
			leaves = append(leaves, n)
		}
	}
	if len(leaves) < 2 {
		return 0, nil
	}

	mrca := leaves[0]
	for _, leaf := range leaves[1:] {
		mrca = commonAncestor(mrca, leaf)
		if mrca == nil {
			return 0, fmt.Errorf("tree has disconnected tips")
		}
	}

	visited := make(map[*node]bool)
	var total float64
	for _, leaf := range leaves {
		for cur := leaf; cur != mrca && cur != nil; cur = cur.parent {
			if !visited[cur] {
				total += cur.length
				visited[cur] = true
			}
		}
	}
	return total, nil
}

func commonAncestor(a, b *node) *node {
	ancestors := make(map[*node]bool)
	for n := a; n != nil; n = n.parent {
		ancestors[n] = true
	}
	for n := b; n != nil; n = n.parent {
		if ancestors[n] {
			return n
		}
	}
	return nil
}
