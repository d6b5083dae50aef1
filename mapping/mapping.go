// Package mapping holds the two BASE-to-edited-tree node correspondences
// the interpreter needs to resolve a node's role (spec.md §4.3): one
// matching BASE to LEFT, one matching BASE to RIGHT.
package mapping

import "pcsmerge/node"

// Mapping relates a BASE-tree node to its counterpart in one edited tree.
// GetDst(base) looks up base's counterpart in the edited tree; GetSrc(dst)
// is its inverse, looking up an edited-tree node's BASE counterpart.
type Mapping interface {
	GetDst(base node.Node) (node.Node, bool)
	GetSrc(dst node.Node) (node.Node, bool)
}

// MapMapping is a Mapping backed by two lookup tables, built once per
// matching pass between BASE and an edited tree.
type MapMapping struct {
	toDst map[node.Node]node.Node
	toSrc map[node.Node]node.Node
}

// NewMapMapping builds a MapMapping from a set of matched (base, dst) pairs.
func NewMapMapping(pairs map[node.Node]node.Node) *MapMapping {
	m := &MapMapping{
		toDst: make(map[node.Node]node.Node, len(pairs)),
		toSrc: make(map[node.Node]node.Node, len(pairs)),
	}
	for base, dst := range pairs {
		m.toDst[base] = dst
		m.toSrc[dst] = base
	}
	return m
}

func (m *MapMapping) GetDst(base node.Node) (node.Node, bool) {
	dst, ok := m.toDst[base]
	return dst, ok
}

func (m *MapMapping) GetSrc(dst node.Node) (node.Node, bool) {
	base, ok := m.toSrc[dst]
	return base, ok
}

// Put records an additional (base, dst) pair, used by matchers that
// discover correspondences incrementally.
func (m *MapMapping) Put(base, dst node.Node) {
	m.toDst[base] = dst
	m.toSrc[dst] = base
}
