// Package content defines the heterogeneous typed attribute values the
// merger reconciles for a single node: candidate values contributed by
// BASE/LEFT/RIGHT, the merged result, and unresolved conflicts between them.
package content

import "pcsmerge/node"

// Role tags which syntactic attribute or child slot a value occupies. The
// same type is shared between node-content attributes (NAME, MODIFIER, ...)
// and parent child-slot roles (TYPE_MEMBER, PARAMETER, ...), matching the
// glossary's unified definition of "role".
type Role string

const (
	RoleName             Role = "NAME"
	RoleValue            Role = "VALUE"
	RoleCommentContent   Role = "COMMENT_CONTENT"
	RoleModifier         Role = "MODIFIER"
	RoleOperatorKind     Role = "OPERATOR_KIND"
	RoleIsUpper          Role = "IS_UPPER"
	RoleAnnotationMember Role = "ANNOTATION_MEMBER"

	// Container/child-slot roles used by langmodel elements.
	RoleTypeMember Role = "TYPE_MEMBER"
	RoleStatement  Role = "STATEMENT"
	RoleParameter  Role = "PARAMETER"
	RoleTypeDecl   Role = "TYPE_DECL"
)

// Candidate is one revision's proposed value for a role on a single node.
type Candidate struct {
	Role     Role
	Value    any
	Revision node.Revision
	// Metadata carries auxiliary data the merger needs but which isn't part
	// of the merged value itself — notably the raw comment text used by the
	// line-based merge for COMMENT_CONTENT.
	Metadata map[string]any
}

// RoledValue is one entry of a node's reconciled attribute set.
type RoledValue struct {
	Role  Role
	Value any
}

// RoledValues is the full reconciled attribute set of a merged node.
type RoledValues []RoledValue

// Conflict records a role whose LEFT and RIGHT candidates could not be
// reconciled without a placeholder sentinel.
type Conflict struct {
	Role  Role
	Left  Candidate
	Right Candidate
	Base  *Candidate // nil if BASE contributed nothing for this role
}

// ModifierCategory partitions a modifier token for reconciliation purposes.
type ModifierCategory int

const (
	ModifierVisibility ModifierCategory = iota
	ModifierKind
	ModifierOther
)

// Modifier is one token of a MODIFIER role's value set.
type Modifier struct {
	Token    string
	Category ModifierCategory
}

// OperatorValue is an OPERATOR_KIND role's value: a category every revision
// must agree on, and the revision-specific textual symbol.
type OperatorValue struct {
	Category         string
	Symbol           string
	CompoundAssign   bool
}

// IsUpperValue is an IS_UPPER role's value: the boolean that selects
// `extends` vs `super` on a wildcard type argument, plus the rendered
// keyword (used for the local conflict map).
type IsUpperValue struct {
	Upper   bool
	Keyword string
}

// LocalConflict is a per-token textual alternative recorded when a role's
// merge chose one side's rendering but the other side's text differs.
type LocalConflict struct {
	Left  string
	Right string
}

// SentinelConflict is the global dictionary entry a content-conflict
// sentinel expands to.
type SentinelConflict struct {
	Left  string
	Right string
}
