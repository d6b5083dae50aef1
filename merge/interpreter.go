// Package merge implements the PCS interpreter (spec.md §4.2): it walks a
// merged change set from the virtual root down, delegates per-node content
// reconciliation to contentmerge, classifies ordering disagreements between
// PCS triples, and hands each resolved node to the tree builder.
package merge

import (
	"pcsmerge/content"
	"pcsmerge/contentmerge"
	"pcsmerge/fault"
	"pcsmerge/mapping"
	"pcsmerge/node"
	"pcsmerge/pcs"
	"pcsmerge/treebuild"
)

// Inputs bundles everything the interpreter needs to reconstruct a merged
// tree from one change set.
type Inputs struct {
	ChangeSet   *pcs.ChangeSet
	BaseLeft    mapping.Mapping
	BaseRight   mapping.Mapping
	VirtualRoot node.Node
	// Elements maps every non-sentinel node referenced by the change set to
	// the original element it wraps. VirtualRoot must map to a
	// treebuild.Parent: the container top-level children are inserted into,
	// and the value Interpret ultimately returns.
	Elements map[node.Node]treebuild.Element
	// RoleOf reports the syntactic role an origin node's element occupied
	// in its source tree.
	RoleOf treebuild.RoleOf
}

// Interpreter runs one merge. A fresh Interpreter must be created per run:
// its content merger and tree builder own run-scoped state (the sentinel
// counter, the visited-node registry) that must never leak across merges.
type Interpreter struct {
	in      Inputs
	merger  *contentmerge.Merger
	builder *treebuild.Builder

	hasStructuralConflicts bool
	hasContentConflicts    bool
}

// NewInterpreter creates an Interpreter for a single merge run over in.
func NewInterpreter(in Inputs) *Interpreter {
	return &Interpreter{
		in:      in,
		merger:  contentmerge.NewMerger(),
		builder: treebuild.NewBuilder(),
	}
}

// Interpret reconstructs the merged tree and reports whether any structural
// or content conflict remains unresolved.
func (ip *Interpreter) Interpret() (treebuild.Element, bool, error) {
	if err := ip.preflightRootConflicts(); err != nil {
		return nil, false, err
	}

	rootElement, ok := ip.in.Elements[ip.in.VirtualRoot]
	if !ok {
		return nil, false, fault.New(fault.InconsistentChangeSet, "no element recorded for the virtual root")
	}
	rootParent, ok := rootElement.(treebuild.Parent)
	if !ok {
		return nil, false, fault.New(fault.InconsistentChangeSet, "virtual root element does not implement treebuild.Parent")
	}

	if _, err := ip.traverse(ip.in.VirtualRoot, rootParent); err != nil {
		return nil, false, err
	}

	return rootParent, ip.hasStructuralConflicts || ip.hasContentConflicts, nil
}

func (ip *Interpreter) preflightRootConflicts() error {
	for t, partners := range ip.in.ChangeSet.StructuralConflicts {
		for _, partner := range partners {
			if kind, ok := pcs.Classify(t, partner); ok && kind == pcs.RootConflict {
				return fault.New(fault.RootConflict, "node under %v conflicts with node under %v", t.Root, partner.Root)
			}
		}
	}
	return nil
}

// traverse walks currentRoot's children in PCS order, visiting each into
// parent, then recurses into each visited child. It returns the set of
// revisions that contributed anything under currentRoot (including itself).
func (ip *Interpreter) traverse(currentRoot node.Node, parent treebuild.Parent) (map[node.Revision]bool, error) {
	revisions := map[node.Revision]bool{}
	if !currentRoot.IsVirtualRoot() {
		revisions[currentRoot.Revision] = true
		for _, c := range ip.in.ChangeSet.Contents[currentRoot] {
			revisions[c.Revision] = true
		}
	}

	if !ip.in.ChangeSet.HasChildren(currentRoot) {
		return revisions, nil
	}

	cursor, _ := ip.in.ChangeSet.StartOf(currentRoot)
	var orderedChildren []node.Node

	for {
		triples := ip.in.ChangeSet.ByPredecessor(currentRoot, cursor)
		if len(triples) == 0 {
			return nil, fault.New(fault.InconsistentChangeSet, "no PCS triple with predecessor %v under root %v", cursor, currentRoot)
		}
		triple := triples[0]
		revisions[triple.Revision] = true
		next := triple.Successor

		if next.IsEndOfList() {
			break
		}

		if len(triples) > 1 {
			revisions[node.Left] = true
			revisions[node.Right] = true
			newCursor, autoResolved, err := ip.traverseConflict(triple, triples[1], currentRoot, parent)
			if err != nil {
				return nil, err
			}
			orderedChildren = append(orderedChildren, autoResolved...)
			cursor = newCursor
			continue
		}

		if _, err := ip.visitChild(next, parent); err != nil {
			return nil, err
		}
		orderedChildren = append(orderedChildren, next)
		cursor = next
	}

	for _, child := range orderedChildren {
		childElement, _ := ip.builder.Visited(child)
		childParent, _ := childElement.(treebuild.Parent)

		subRevisions, err := ip.traverse(child, childParent)
		if err != nil {
			return nil, err
		}
		if len(subRevisions) == 1 {
			for rev := range subRevisions {
				childElement.SetMetadata(treebuild.MetaSingleRevision, rev)
			}
		}
		for rev := range subRevisions {
			revisions[rev] = true
		}
	}

	return revisions, nil
}

// visitChild merges n's content candidates and hands the result to the
// builder for insertion under parent.
func (ip *Interpreter) visitChild(n node.Node, parent treebuild.Parent) (treebuild.Element, error) {
	source, ok := ip.in.Elements[n]
	if !ok {
		return nil, fault.New(fault.InconsistentChangeSet, "no source element recorded for node %v", n)
	}

	outcome, err := ip.merger.Merge(ip.in.ChangeSet.Contents[n])
	if err != nil {
		return nil, err
	}
	hasConflict := len(outcome.Conflicts) > 0 || outcome.HasCommentConflict
	if hasConflict {
		ip.hasContentConflicts = true
	}

	built, err := ip.builder.Visit([]node.Node{n}, source, outcome.Values, hasConflict, ip.in.RoleOf, ip.in.BaseLeft, ip.in.BaseRight, parent)
	if err != nil {
		return nil, err
	}

	if len(outcome.Conflicts) > 0 {
		built.SetMetadata(treebuild.MetaContentConflict, outcome.Conflicts)
	}
	if len(outcome.LocalConflicts) > 0 {
		built.SetMetadata(treebuild.MetaLocalConflictMap, outcome.LocalConflicts)
	}
	if outcome.HasCommentConflict {
		built.SetMetadata(treebuild.MetaCommentConflict, outcome.CommentConflictText)
	}
	built.SetMetadata(treebuild.MetaGlobalConflictMap, ip.merger.GlobalConflicts())

	return built, nil
}

// traverseConflict handles a successor conflict: triple and partner share a
// predecessor but disagree on what follows. It extracts each side's
// diverging sequence, attempts the TYPE_MEMBER auto-resolution, and
// otherwise emits a structural-conflict placeholder.
func (ip *Interpreter) traverseConflict(triple, partner pcs.Triple, parentRoot node.Node, parent treebuild.Parent) (node.Node, []node.Node, error) {
	leftTriple, rightTriple := triple, partner
	if leftTriple.Revision != node.Left {
		leftTriple, rightTriple = rightTriple, leftTriple
	}

	leftSeq, err := ip.extractConflictSequence(parentRoot, leftTriple)
	if err != nil {
		return node.Node{}, nil, err
	}
	rightSeq, err := ip.extractConflictSequence(parentRoot, rightTriple)
	if err != nil {
		return node.Node{}, nil, err
	}

	if resolved, ok := tryAutoResolveTypeMembers(leftSeq, rightSeq, ip.in.RoleOf); ok {
		for _, n := range resolved {
			if _, err := ip.visitChild(n, parent); err != nil {
				return node.Node{}, nil, err
			}
		}
		return lastOrFallback(leftSeq, leftTriple.Successor), resolved, nil
	}

	ip.hasStructuralConflicts = true

	anchor := firstOrFallback(leftSeq, leftTriple.Successor)
	if len(leftSeq) == 0 && len(rightSeq) > 0 {
		anchor = rightSeq[0]
	}
	role, err := treebuild.ResolveRole(anchor, ip.in.RoleOf, ip.in.BaseLeft, ip.in.BaseRight)
	if err != nil {
		return node.Node{}, nil, err
	}

	if _, err := ip.builder.VisitConflicting(parent, role, leftSeq, rightSeq, ip.elementsFor(leftSeq), ip.elementsFor(rightSeq)); err != nil {
		return node.Node{}, nil, err
	}

	// The placeholder's own children are detached (spec.md §4.3): it is
	// inserted into parent but never added to the recursion set.
	return lastOrFallback(leftSeq, leftTriple.Successor), nil, nil
}

// extractConflictSequence follows successor pointers from start until a
// predecessor-conflict partner is found — the point where this side's chain
// rejoins the other side's — and returns the nodes strictly between start
// and that rejoin point.
func (ip *Interpreter) extractConflictSequence(parentRoot node.Node, start pcs.Triple) ([]node.Node, error) {
	var seq []node.Node
	current := start
	for {
		if _, ok := ip.in.ChangeSet.ConflictPartner(current, pcs.PredecessorConflict); ok {
			return seq, nil
		}
		next := current.Successor
		if next.IsEndOfList() {
			return nil, fault.New(fault.UnterminatedConflictRegion, "conflict region under %v reached end-of-list without a closing predecessor conflict", parentRoot)
		}
		seq = append(seq, next)

		triples := ip.in.ChangeSet.ByPredecessor(parentRoot, next)
		if len(triples) == 0 {
			return nil, fault.New(fault.InconsistentChangeSet, "no PCS triple with predecessor %v under root %v", next, parentRoot)
		}
		current = triples[0]
	}
}

// tryAutoResolveTypeMembers applies the one enumerated auto-resolution
// policy: if every node on both sides plays the TYPE_MEMBER role, the
// sequences are concatenated left-then-right. This is a deliberate,
// non-commutative approximation pinned by the interpreter's tests.
func tryAutoResolveTypeMembers(leftSeq, rightSeq []node.Node, roleOf treebuild.RoleOf) ([]node.Node, bool) {
	if !allRole(leftSeq, roleOf, content.RoleTypeMember) || !allRole(rightSeq, roleOf, content.RoleTypeMember) {
		return nil, false
	}
	resolved := make([]node.Node, 0, len(leftSeq)+len(rightSeq))
	resolved = append(resolved, leftSeq...)
	resolved = append(resolved, rightSeq...)
	return resolved, true
}

func allRole(seq []node.Node, roleOf treebuild.RoleOf, want content.Role) bool {
	for _, n := range seq {
		r, ok := roleOf(n)
		if !ok || r != want {
			return false
		}
	}
	return true
}

func (ip *Interpreter) elementsFor(seq []node.Node) []treebuild.Element {
	if len(seq) == 0 {
		return nil
	}
	out := make([]treebuild.Element, 0, len(seq))
	for _, n := range seq {
		out = append(out, ip.in.Elements[n])
	}
	return out
}

func lastOrFallback(seq []node.Node, fallback node.Node) node.Node {
	if len(seq) == 0 {
		return fallback
	}
	return seq[len(seq)-1]
}

func firstOrFallback(seq []node.Node, fallback node.Node) node.Node {
	if len(seq) == 0 {
		return fallback
	}
	return seq[0]
}
