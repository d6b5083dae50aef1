// Package pcs implements the Parent-Child-Successor relation and the merged
// change set the interpreter walks: a directed graph, keyed by parent, whose
// predecessor->successor chains recover each parent's ordered child list.
package pcs

import (
	"sort"

	"pcsmerge/content"
	"pcsmerge/node"
)

// Triple is the relation "under Root, Predecessor is immediately followed
// by Successor", as contributed by one revision.
type Triple struct {
	Root        node.Node
	Predecessor node.Node
	Successor   node.Node
	Revision    node.Revision
}

// ConflictKind classifies how two PCS triples disagree (spec.md §3).
type ConflictKind int

const (
	PredecessorConflict ConflictKind = iota
	SuccessorConflict
	RootConflict
)

// Classify determines how a and b conflict, if at all. Per spec.md §3: a
// root conflict compares the triples' Root (parent) fields, not their
// revision tags — two triples from different revisions agreeing on both
// root and ordering are not in conflict at all.
func Classify(a, b Triple) (ConflictKind, bool) {
	if a == b {
		return 0, false
	}
	if a.Root != b.Root {
		if a.Predecessor == b.Predecessor || a.Successor == b.Successor {
			return RootConflict, true
		}
		return 0, false
	}
	if a.Successor == b.Successor && a.Predecessor != b.Predecessor {
		return PredecessorConflict, true
	}
	if a.Predecessor == b.Predecessor && a.Successor != b.Successor {
		return SuccessorConflict, true
	}
	return 0, false
}

// StructuralConflict is the metadata payload attached to a placeholder
// sibling when a cursor's ordering could not be reconciled automatically.
type StructuralConflict struct {
	Left  []node.Node
	Right []node.Node
}

// ChangeSet bundles the merged PCS triples, the per-node content
// candidates, and the conflict relations between triples.
type ChangeSet struct {
	Triples             []Triple
	Contents            map[node.Node][]content.Candidate
	StructuralConflicts map[Triple][]Triple

	byPred map[predKey][]Triple
}

type predKey struct {
	Root, Pred node.Node
}

// NewChangeSet builds a ChangeSet and its traversal indices. triples is the
// full post-merge, post-conflict-detection PCS set; contents maps each
// non-sentinel node to its BASE/LEFT/RIGHT content candidates (in any
// order — the content merger re-sorts by revision); structuralConflicts
// lists, per triple, the other triples it conflicts with.
func NewChangeSet(triples []Triple, contents map[node.Node][]content.Candidate, structuralConflicts map[Triple][]Triple) *ChangeSet {
	cs := &ChangeSet{
		Triples:             triples,
		Contents:            contents,
		StructuralConflicts: structuralConflicts,
		byPred:              make(map[predKey][]Triple),
	}
	for _, t := range triples {
		key := predKey{t.Root, t.Predecessor}
		cs.byPred[key] = append(cs.byPred[key], t)
	}
	// Deterministic order within a conflicting pair: LEFT before RIGHT.
	for k, ts := range cs.byPred {
		if len(ts) > 1 {
			sorted := append([]Triple{}, ts...)
			sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Revision < sorted[j].Revision })
			cs.byPred[k] = sorted
		}
	}
	return cs
}

// ByPredecessor returns every triple rooted at root whose predecessor is
// pred — normally exactly one, or two when a successor conflict has left
// two distinct chains starting at the same predecessor.
func (cs *ChangeSet) ByPredecessor(root, pred node.Node) []Triple {
	return cs.byPred[predKey{root, pred}]
}

// StartOf locates the start-of-list sentinel node for root, if root has any
// children in this change set.
func (cs *ChangeSet) StartOf(root node.Node) (node.Node, bool) {
	for key := range cs.byPred {
		if key.Root == root && key.Pred.IsStartOfList() {
			return key.Pred, true
		}
	}
	return node.Node{}, false
}

// HasChildren reports whether root has any PCS triples at all.
func (cs *ChangeSet) HasChildren(root node.Node) bool {
	_, ok := cs.StartOf(root)
	return ok
}

// ConflictPartner returns the triple that conflicts with t in the given way,
// if any, consulting the authoritative StructuralConflicts relation.
func (cs *ChangeSet) ConflictPartner(t Triple, kind ConflictKind) (Triple, bool) {
	for _, partner := range cs.StructuralConflicts[t] {
		if k, ok := Classify(t, partner); ok && k == kind {
			return partner, true
		}
	}
	return Triple{}, false
}
