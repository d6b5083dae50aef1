// Package fault defines the fatal error taxonomy shared by the PCS merge
// packages. Fatal errors indicate an inconsistent change set or matching —
// an upstream bug, not something the interpreter can recover from.
package fault

import "fmt"

// Kind classifies a fatal merge failure.
type Kind string

const (
	RootConflict               Kind = "ROOT_CONFLICT"
	MoveConflict               Kind = "MOVE_CONFLICT"
	UnterminatedConflictRegion Kind = "UNTERMINATED_CONFLICT_REGION"
	UnhandledContentRole       Kind = "UNHANDLED_CONTENT_ROLE"
	MissingAnnotationKey       Kind = "MISSING_ANNOTATION_KEY"
	AmbiguousRole              Kind = "AMBIGUOUS_ROLE"
	InconsistentChangeSet      Kind = "INCONSISTENT_CHANGE_SET"
)

// Error is a fatal, unrecoverable merge failure.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pcs merge: %s: %s", e.Kind, e.Detail)
}

// New constructs a fatal error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a fault.Error of the given kind, so callers
// can branch without string matching.
func Is(err error, kind Kind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == kind
}
