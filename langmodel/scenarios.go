package langmodel

import (
	"pcsmerge/content"
	"pcsmerge/mapping"
	"pcsmerge/merge"
	"pcsmerge/node"
	"pcsmerge/pcs"
	"pcsmerge/treebuild"
)

// scenario accumulates the plumbing every fixture needs: the triples, the
// content candidates, the original-element registry, and the role lookup,
// built incrementally by chain.
type scenario struct {
	triples  []pcs.Triple
	contents map[node.Node][]content.Candidate
	elements map[node.Node]treebuild.Element
	roles    map[node.Node]content.Role
}

func newScenario() *scenario {
	return &scenario{
		contents: map[node.Node][]content.Candidate{},
		elements: map[node.Node]treebuild.Element{},
		roles:    map[node.Node]content.Role{},
	}
}

func (s *scenario) register(n node.Node, el treebuild.Element, role content.Role) {
	s.elements[n] = el
	s.roles[n] = role
}

// chain emits a start-of-list -> children... -> end-of-list run of triples
// under root, all tagged with rev. Reusing the same marker across revisions
// for a given parent (startMarker, endMarker) yields a single canonical sentinel
// node that every revision's chain converges on.
func (s *scenario) chain(root node.Node, rev node.Revision, startMarker, endMarker any, children []node.Node) {
	start := node.StartOfList(startMarker, node.Base)
	end := node.EndOfList(endMarker, node.Base)
	seq := append([]node.Node{start}, children...)
	seq = append(seq, end)
	for i := 0; i < len(seq)-1; i++ {
		s.triples = append(s.triples, pcs.Triple{Root: root, Predecessor: seq[i], Successor: seq[i+1], Revision: rev})
	}
}

func (s *scenario) roleOf(n node.Node) (content.Role, bool) {
	r, ok := s.roles[n]
	return r, ok
}

func (s *scenario) inputs(virtualRoot node.Node) merge.Inputs {
	empty := mapping.NewMapMapping(nil)
	return merge.Inputs{
		ChangeSet:   pcs.NewChangeSet(s.triples, s.contents, map[pcs.Triple][]pcs.Triple{}),
		BaseLeft:    empty,
		BaseRight:   empty,
		VirtualRoot: virtualRoot,
		Elements:    s.elements,
		RoleOf:      s.roleOf,
	}
}

// inputsWithConflicts attaches the conflicting-triple relation computed
// from whichever triple pairs pcs.Classify recognizes, so callers don't have
// to hand-list them.
func (s *scenario) inputsWithConflicts(virtualRoot node.Node) merge.Inputs {
	in := s.inputs(virtualRoot)
	conflicts := map[pcs.Triple][]pcs.Triple{}
	for i, a := range s.triples {
		for j, b := range s.triples {
			if i == j {
				continue
			}
			if _, ok := pcs.Classify(a, b); ok {
				conflicts[a] = append(conflicts[a], b)
			}
		}
	}
	cs := pcs.NewChangeSet(s.triples, s.contents, conflicts)
	in.ChangeSet = cs
	return in
}

// RenameConflictScenario builds spec.md §8 scenario 1: BASE `foo`, LEFT
// renames to `bar`, RIGHT renames to `baz`.
func RenameConflictScenario() merge.Inputs {
	s := newScenario()
	virtualRoot := node.VirtualRoot(NewCompilationUnit())
	typeDecl := node.Wrap(new(int), node.Base)
	method := node.Wrap(new(int), node.Base)

	s.register(virtualRoot, virtualRoot.Element.(treebuild.Element), content.RoleTypeDecl)
	s.register(typeDecl, NewTypeDecl(), content.RoleTypeDecl)
	s.register(method, NewMethod(), content.RoleTypeMember)

	s.chain(virtualRoot, node.Base, "vr-start", "vr-end", []node.Node{typeDecl})
	s.chain(typeDecl, node.Base, "td-start", "td-end", []node.Node{method})

	s.contents[method] = []content.Candidate{
		{Role: content.RoleName, Value: "foo", Revision: node.Base},
		{Role: content.RoleName, Value: "bar", Revision: node.Left},
		{Role: content.RoleName, Value: "baz", Revision: node.Right},
	}

	return s.inputsWithConflicts(virtualRoot)
}

// ModifierUnionScenario builds scenario 2: BASE `final`; LEFT `final
// static`; RIGHT `final synchronized`.
func ModifierUnionScenario() merge.Inputs {
	s := newScenario()
	virtualRoot := node.VirtualRoot(NewCompilationUnit())
	typeDecl := node.Wrap(new(int), node.Base)
	method := node.Wrap(new(int), node.Base)

	s.register(virtualRoot, virtualRoot.Element.(treebuild.Element), content.RoleTypeDecl)
	s.register(typeDecl, NewTypeDecl(), content.RoleTypeDecl)
	s.register(method, NewMethod(), content.RoleTypeMember)

	s.chain(virtualRoot, node.Base, "vr-start", "vr-end", []node.Node{typeDecl})
	s.chain(typeDecl, node.Base, "td-start", "td-end", []node.Node{method})

	final := content.Modifier{Token: "final", Category: content.ModifierKind}
	static := content.Modifier{Token: "static", Category: content.ModifierOther}
	synchronized := content.Modifier{Token: "synchronized", Category: content.ModifierOther}

	s.contents[method] = []content.Candidate{
		{Role: content.RoleModifier, Value: []content.Modifier{final}, Revision: node.Base},
		{Role: content.RoleModifier, Value: []content.Modifier{final, static}, Revision: node.Left},
		{Role: content.RoleModifier, Value: []content.Modifier{final, synchronized}, Revision: node.Right},
	}

	return s.inputsWithConflicts(virtualRoot)
}

// VisibilityConflictScenario builds scenario 3: BASE `public`; LEFT
// `private`; RIGHT `protected`.
func VisibilityConflictScenario() merge.Inputs {
	s := newScenario()
	virtualRoot := node.VirtualRoot(NewCompilationUnit())
	typeDecl := node.Wrap(new(int), node.Base)
	method := node.Wrap(new(int), node.Base)

	s.register(virtualRoot, virtualRoot.Element.(treebuild.Element), content.RoleTypeDecl)
	s.register(typeDecl, NewTypeDecl(), content.RoleTypeDecl)
	s.register(method, NewMethod(), content.RoleTypeMember)

	s.chain(virtualRoot, node.Base, "vr-start", "vr-end", []node.Node{typeDecl})
	s.chain(typeDecl, node.Base, "td-start", "td-end", []node.Node{method})

	public := content.Modifier{Token: "public", Category: content.ModifierVisibility}
	private := content.Modifier{Token: "private", Category: content.ModifierVisibility}
	protected := content.Modifier{Token: "protected", Category: content.ModifierVisibility}

	s.contents[method] = []content.Candidate{
		{Role: content.RoleModifier, Value: []content.Modifier{public}, Revision: node.Base},
		{Role: content.RoleModifier, Value: []content.Modifier{private}, Revision: node.Left},
		{Role: content.RoleModifier, Value: []content.Modifier{protected}, Revision: node.Right},
	}

	return s.inputsWithConflicts(virtualRoot)
}

// CommentConflictScenario builds scenario 4: overlapping comment edits that
// cannot be reconciled by the line-based merge.
func CommentConflictScenario() merge.Inputs {
	s := newScenario()
	virtualRoot := node.VirtualRoot(NewCompilationUnit())
	typeDecl := node.Wrap(new(int), node.Base)
	comment := node.Wrap(new(int), node.Base)

	s.register(virtualRoot, virtualRoot.Element.(treebuild.Element), content.RoleTypeDecl)
	s.register(typeDecl, NewTypeDecl(), content.RoleTypeDecl)
	s.register(comment, NewComment(), content.RoleTypeMember)

	s.chain(virtualRoot, node.Base, "vr-start", "vr-end", []node.Node{typeDecl})
	s.chain(typeDecl, node.Base, "td-start", "td-end", []node.Node{comment})

	s.contents[comment] = []content.Candidate{
		{Role: content.RoleCommentContent, Value: "old", Revision: node.Base},
		{Role: content.RoleCommentContent, Value: "old line\nnew-left", Revision: node.Left},
		{Role: content.RoleCommentContent, Value: "old line\nnew-right", Revision: node.Right},
	}

	return s.inputsWithConflicts(virtualRoot)
}

// TypeMemberAutoResolutionScenario builds scenario 5: BASE `[m1]`; LEFT
// inserts `[m1, m2]`; RIGHT inserts `[m1, m3]`.
func TypeMemberAutoResolutionScenario() merge.Inputs {
	s := newScenario()
	virtualRoot := node.VirtualRoot(NewCompilationUnit())
	typeDecl := node.Wrap(new(int), node.Base)
	m1 := node.Wrap(new(int), node.Base)
	m2 := node.Wrap(new(int), node.Left)
	m3 := node.Wrap(new(int), node.Right)

	s.register(virtualRoot, virtualRoot.Element.(treebuild.Element), content.RoleTypeDecl)
	s.register(typeDecl, NewTypeDecl(), content.RoleTypeDecl)
	s.register(m1, NewMethod(), content.RoleTypeMember)
	s.register(m2, NewMethod(), content.RoleTypeMember)
	s.register(m3, NewMethod(), content.RoleTypeMember)

	s.chain(virtualRoot, node.Base, "vr-start", "vr-end", []node.Node{typeDecl})

	start := node.StartOfList("td-start", node.Base)
	end := node.EndOfList("td-end", node.Base)
	s.triples = append(s.triples,
		pcs.Triple{Root: typeDecl, Predecessor: start, Successor: m1, Revision: node.Base},
		pcs.Triple{Root: typeDecl, Predecessor: m1, Successor: m2, Revision: node.Left},
		pcs.Triple{Root: typeDecl, Predecessor: m2, Successor: end, Revision: node.Left},
		pcs.Triple{Root: typeDecl, Predecessor: m1, Successor: m3, Revision: node.Right},
		pcs.Triple{Root: typeDecl, Predecessor: m3, Successor: end, Revision: node.Right},
	)

	for _, m := range []node.Node{m1, m2, m3} {
		s.contents[m] = []content.Candidate{{Role: content.RoleName, Value: "m", Revision: m.Revision}}
	}

	return s.inputsWithConflicts(virtualRoot)
}

// SuccessorConflictScenario builds scenario 6: BASE statements `[s1, s3]`;
// LEFT `[s1, sL, s3]`; RIGHT `[s1, sR, s3]`.
func SuccessorConflictScenario() merge.Inputs {
	s := newScenario()
	virtualRoot := node.VirtualRoot(NewCompilationUnit())
	typeDecl := node.Wrap(new(int), node.Base)
	method := node.Wrap(new(int), node.Base)
	s1 := node.Wrap(new(int), node.Base)
	s3 := node.Wrap(new(int), node.Base)
	sL := node.Wrap(new(int), node.Left)
	sR := node.Wrap(new(int), node.Right)

	s.register(virtualRoot, virtualRoot.Element.(treebuild.Element), content.RoleTypeDecl)
	s.register(typeDecl, NewTypeDecl(), content.RoleTypeDecl)
	s.register(method, NewMethod(), content.RoleTypeMember)
	s.register(s1, NewStatement(), content.RoleStatement)
	s.register(s3, NewStatement(), content.RoleStatement)
	s.register(sL, NewStatement(), content.RoleStatement)
	s.register(sR, NewStatement(), content.RoleStatement)

	s.chain(virtualRoot, node.Base, "vr-start", "vr-end", []node.Node{typeDecl})
	s.chain(typeDecl, node.Base, "td-start", "td-end", []node.Node{method})

	mStart := node.StartOfList("m-start", node.Base)
	mEnd := node.EndOfList("m-end", node.Base)
	s.triples = append(s.triples,
		pcs.Triple{Root: method, Predecessor: mStart, Successor: s1, Revision: node.Base},
		pcs.Triple{Root: method, Predecessor: s1, Successor: sL, Revision: node.Left},
		pcs.Triple{Root: method, Predecessor: sL, Successor: s3, Revision: node.Left},
		pcs.Triple{Root: method, Predecessor: s1, Successor: sR, Revision: node.Right},
		pcs.Triple{Root: method, Predecessor: sR, Successor: s3, Revision: node.Right},
		pcs.Triple{Root: method, Predecessor: s3, Successor: mEnd, Revision: node.Base},
	)

	for _, n := range []node.Node{s1, s3, sL, sR} {
		s.contents[n] = []content.Candidate{{Role: content.RoleValue, Value: "stmt", Revision: n.Revision}}
	}

	return s.inputsWithConflicts(virtualRoot)
}
