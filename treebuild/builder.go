// Package treebuild assembles the merged syntax tree from visited PCS
// nodes: it shallow-copies each original element, applies its reconciled
// content, resolves which syntactic role the copy occupies under its new
// parent, and inserts it using that slot's container semantics.
package treebuild

import (
	"pcsmerge/content"
	"pcsmerge/fault"
	"pcsmerge/mapping"
	"pcsmerge/node"
)

// SlotKind identifies how a parent stores children filling a given role.
type SlotKind int

const (
	SlotScalar SlotKind = iota
	SlotSequence
	SlotSet
	SlotKeyedMap
)

// Element is anything the builder can clone and annotate: a node of one of
// the three input trees, or the merged tree under construction.
type Element interface {
	// Role returns the child-slot role this element occupies under its
	// original parent.
	Role() content.Role
	// Clone returns a shallow copy: same concrete type, no children, no
	// wrapper metadata, ready to receive merged content.
	Clone() Element
	// ApplyContent installs the merger's reconciled attribute values.
	ApplyContent(values content.RoledValues) error
	// SetMetadata attaches a metadata value under one of the contract keys
	// in the table of §6 (ORIGINAL_NODE, CONTENT_CONFLICT, ...).
	SetMetadata(key string, value any)
}

// Parent is an Element that can receive children into role-addressed slots.
type Parent interface {
	Element
	// SlotKind reports how children filling role are stored under this
	// parent.
	SlotKind(role content.Role) SlotKind
	// InsertScalar overwrites the single-child slot for role.
	InsertScalar(role content.Role, child Element) error
	// AppendSequence appends child to the ordered sequence for role.
	AppendSequence(role content.Role, child Element) error
	// AddToSet adds child to the unordered set for role.
	AddToSet(role content.Role, child Element) error
	// PutKeyed inserts child under key into the keyed mapping for role.
	PutKeyed(role content.Role, key string, child Element) error
}

// KeyedMember is an Element bound into its original parent's keyed mapping
// under a string key (an annotation's `key = value` member).
type KeyedMember interface {
	Element
	// OriginalKey returns the key origNode was bound under in its original
	// annotation parent.
	OriginalKey() string
}

// Metadata keys an external consumer of the merged tree reads by name.
const (
	MetaOriginalNode       = "ORIGINAL_NODE"
	MetaSingleRevision     = "SINGLE_REVISION"
	MetaContentConflict    = "CONTENT_CONFLICT"
	MetaStructuralConflict = "STRUCTURAL_CONFLICT"
	MetaLocalConflictMap   = "LOCAL_CONFLICT_MAP"
	MetaGlobalConflictMap  = "GLOBAL_CONFLICT_MAP"
	MetaCommentConflict    = "COMMENT_CONFLICT"
)

// RoleOf looks up the syntactic role an origin node's element occupied in
// its source tree. The interpreter supplies this from the per-revision
// trees it holds; the builder never needs to walk a tree itself.
type RoleOf func(n node.Node) (content.Role, bool)

// Builder owns the visited-node registry for one interpreter run. A node
// visited twice (from two parents) is a move conflict (spec.md §4.3).
type Builder struct {
	visited map[node.Node]Element
}

// NewBuilder creates an empty Builder for a single merge run.
func NewBuilder() *Builder {
	return &Builder{visited: make(map[node.Node]Element)}
}

// Visited reports the merged element already registered for n, if any.
func (b *Builder) Visited(n node.Node) (Element, bool) {
	el, ok := b.visited[n]
	return el, ok
}

// Visit clones source (the original element for one of the node identities
// in identities — all of which denote the same logical position across
// revisions), applies mergedValues and conflict metadata, resolves its role,
// and inserts it into parent. identities must include every revision's node
// that maps to this visit so later lookups from any revision's cursor find
// the same merged element.
func (b *Builder) Visit(identities []node.Node, source Element, mergedValues content.RoledValues, hasContentConflict bool, roleOf RoleOf, baseLeft, baseRight mapping.Mapping, parent Parent) (Element, error) {
	if len(identities) == 0 {
		return nil, fault.New(fault.InconsistentChangeSet, "visit called with no node identities")
	}
	primary := identities[0]
	if _, already := b.Visited(primary); already {
		return nil, fault.New(fault.MoveConflict, "node already visited: %v", primary)
	}

	clone := source.Clone()
	clone.SetMetadata(MetaOriginalNode, source)
	if err := clone.ApplyContent(mergedValues); err != nil {
		return nil, err
	}

	if hasContentConflict {
		clone.SetMetadata(MetaContentConflict, true)
	}

	role, err := ResolveRole(primary, roleOf, baseLeft, baseRight)
	if err != nil {
		return nil, err
	}

	if parent != nil {
		if err := insert(parent, role, clone); err != nil {
			return nil, err
		}
	}

	for _, id := range identities {
		b.visited[id] = clone
	}
	return clone, nil
}

// VisitConflicting registers a placeholder sibling for an unresolved
// structural conflict: the first non-empty side's node stands in for both,
// carrying a STRUCTURAL_CONFLICT metadata payload, detached from its own
// children.
func (b *Builder) VisitConflicting(parent Parent, role content.Role, leftNodes, rightNodes []node.Node, leftOriginals, rightOriginals []Element) (Element, error) {
	var placeholderSrc Element
	var identity node.Node
	switch {
	case len(leftOriginals) > 0:
		placeholderSrc = leftOriginals[0]
		identity = leftNodes[0]
	case len(rightOriginals) > 0:
		placeholderSrc = rightOriginals[0]
		identity = rightNodes[0]
	default:
		return nil, fault.New(fault.InconsistentChangeSet, "visitConflicting called with no candidate nodes")
	}

	if _, already := b.Visited(identity); already {
		return nil, fault.New(fault.MoveConflict, "node already visited: %v", identity)
	}

	placeholder := placeholderSrc.Clone()
	placeholder.SetMetadata(MetaStructuralConflict, StructuralConflict{
		LeftOriginals:  leftOriginals,
		RightOriginals: rightOriginals,
	})

	if parent != nil {
		if err := insert(parent, role, placeholder); err != nil {
			return nil, err
		}
	}

	identities := append(append([]node.Node{}, leftNodes...), rightNodes...)
	for _, id := range identities {
		b.visited[id] = placeholder
	}
	return placeholder, nil
}

// StructuralConflict is the metadata payload a placeholder sibling carries.
type StructuralConflict struct {
	LeftOriginals  []Element
	RightOriginals []Element
}

func insert(parent Parent, role content.Role, child Element) error {
	switch parent.SlotKind(role) {
	case SlotScalar:
		return parent.InsertScalar(role, child)
	case SlotSequence:
		return parent.AppendSequence(role, child)
	case SlotSet:
		return parent.AddToSet(role, child)
	case SlotKeyedMap:
		member, ok := child.(KeyedMember)
		if !ok {
			return fault.New(fault.MissingAnnotationKey, "role %s is keyed but element does not carry a key", role)
		}
		key := member.OriginalKey()
		if key == "" {
			return fault.New(fault.MissingAnnotationKey, "original key could not be located for role %s", role)
		}
		return parent.PutKeyed(role, key, child)
	default:
		return fault.New(fault.InconsistentChangeSet, "unknown slot kind for role %s", role)
	}
}

// ResolveRole implements spec.md §4.3's role-resolution algorithm: a node
// may nominally have up to two syntactic roles after editing (BASE's role
// plus one edited side's role), and exactly one must remain after removing
// the base counterpart's role from the candidate set.
func ResolveRole(n node.Node, roleOf RoleOf, baseLeft, baseRight mapping.Mapping) (content.Role, error) {
	origRole, ok := roleOf(n)
	if !ok {
		return "", fault.New(fault.AmbiguousRole, "no recorded role for node")
	}

	roles := map[content.Role]bool{origRole: true}
	var baseCounterpartRole content.Role
	haveBaseCounterpart := false

	addRoleOf := func(candidate node.Node, ok bool) {
		if !ok {
			return
		}
		if r, ok := roleOf(candidate); ok {
			roles[r] = true
		}
	}

	switch n.Revision {
	case node.Base:
		// n's own role is itself the base counterpart to remove: if neither
		// side's match disagrees with it, roles reduces back to origRole; if
		// exactly one side moved its match to a different role, that role is
		// what survives the removal.
		baseCounterpartRole = origRole
		haveBaseCounterpart = true
		leftMatch, okL := baseLeft.GetDst(n)
		addRoleOf(leftMatch, okL)
		rightMatch, okR := baseRight.GetDst(n)
		addRoleOf(rightMatch, okR)
	case node.Left:
		if baseMatch, ok := baseLeft.GetSrc(n); ok {
			if r, ok := roleOf(baseMatch); ok {
				baseCounterpartRole = r
				haveBaseCounterpart = true
				roles[r] = true
			}
		}
	case node.Right:
		if baseMatch, ok := baseRight.GetSrc(n); ok {
			if r, ok := roleOf(baseMatch); ok {
				baseCounterpartRole = r
				haveBaseCounterpart = true
				roles[r] = true
			}
		}
	}

	if haveBaseCounterpart {
		delete(roles, baseCounterpartRole)
		if len(roles) == 0 {
			return baseCounterpartRole, nil
		}
	}

	if len(roles) != 1 {
		return "", fault.New(fault.AmbiguousRole, "role set did not reduce to a single role (revision %s, candidates %v)", n.Revision, roles)
	}
	for r := range roles {
		return r, nil
	}
	return "", fault.New(fault.AmbiguousRole, "unreachable: empty role set after length check")
}
