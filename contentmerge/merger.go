// Package contentmerge reconciles a single node's candidate attribute
// values (spec.md §4.1): the three-way rule for single-valued roles, and
// role-specific policies — sentinel substitution, modifier-set union,
// line-based comment merge, and local conflict maps — for the roles that
// can genuinely disagree.
package contentmerge

import (
	"fmt"
	"reflect"
	"sort"

	"pcsmerge/content"
	"pcsmerge/fault"
	"pcsmerge/node"
)

// Merger owns the sentinel counter and the global conflict dictionary for
// one interpreter run. It is never shared across merges (spec.md §5).
type Merger struct {
	sentinelCount int
	global        map[string]content.SentinelConflict
}

// NewMerger creates a Merger for a single merge run.
func NewMerger() *Merger {
	return &Merger{global: make(map[string]content.SentinelConflict)}
}

// Outcome is the result of merging one node's content candidates.
type Outcome struct {
	Values              content.RoledValues
	Conflicts           []content.Conflict
	LocalConflicts      map[string]content.LocalConflict
	CommentConflictText string
	HasCommentConflict  bool
}

// GlobalConflicts returns a read-only snapshot of the sentinel dictionary
// accumulated so far in this run, suitable for attaching to every node
// under the GLOBAL_CONFLICT_MAP metadata key.
func (m *Merger) GlobalConflicts() map[string]content.SentinelConflict {
	snap := make(map[string]content.SentinelConflict, len(m.global))
	for k, v := range m.global {
		snap[k] = v
	}
	return snap
}

// Merge reconciles every role present across candidates into a merged
// attribute set plus any unresolved content conflicts.
func (m *Merger) Merge(candidates []content.Candidate) (Outcome, error) {
	byRole := groupByRole(candidates)

	var roles []content.Role
	for r := range byRole {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	out := Outcome{LocalConflicts: map[string]content.LocalConflict{}}
	for _, role := range roles {
		group := byRole[role]
		base, left, right := pickByRevision(group)

		if left != nil && right != nil && valueEqual(left.Value, right.Value) {
			out.Values = append(out.Values, content.RoledValue{Role: role, Value: left.Value})
			continue
		}
		if base != nil {
			if left == nil || valueEqual(left.Value, base.Value) {
				if right != nil {
					out.Values = append(out.Values, content.RoledValue{Role: role, Value: right.Value})
				} else {
					out.Values = append(out.Values, content.RoledValue{Role: role, Value: base.Value})
				}
				continue
			}
			if right == nil || valueEqual(right.Value, base.Value) {
				out.Values = append(out.Values, content.RoledValue{Role: role, Value: left.Value})
				continue
			}
		} else if left == nil || right == nil {
			// Only one of LEFT/RIGHT contributed (and no BASE opinion): the
			// single-revision rule already applies.
			sole := left
			if sole == nil {
				sole = right
			}
			out.Values = append(out.Values, content.RoledValue{Role: role, Value: sole.Value})
			continue
		}

		// Both LEFT and RIGHT differ from BASE (or from each other with no
		// BASE opinion at all): genuine disagreement. Dispatch by role.
		value, err := m.resolveConflict(role, base, left, right, &out)
		if err != nil {
			return Outcome{}, err
		}
		out.Values = append(out.Values, content.RoledValue{Role: role, Value: value})
	}
	return out, nil
}

func groupByRole(candidates []content.Candidate) map[content.Role][]content.Candidate {
	groups := make(map[content.Role][]content.Candidate)
	for _, c := range candidates {
		groups[c.Role] = append(groups[c.Role], c)
	}
	return groups
}

// pickByRevision returns the candidate contributed by each revision, in the
// fixed BASE, LEFT, RIGHT order spec.md §4.1 requires for determinism.
func pickByRevision(group []content.Candidate) (base, left, right *content.Candidate) {
	ordered := append([]content.Candidate{}, group...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Revision < ordered[j].Revision })
	for i := range ordered {
		c := &ordered[i]
		switch c.Revision {
		case node.Base:
			base = c
		case node.Left:
			left = c
		case node.Right:
			right = c
		}
	}
	return
}

func valueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func (m *Merger) resolveConflict(role content.Role, base, left, right *content.Candidate, out *Outcome) (any, error) {
	switch role {
	case content.RoleName, content.RoleValue:
		return m.resolveSentinel(role, base, left, right, out)
	case content.RoleCommentContent:
		return m.resolveComment(base, left, right, out)
	case content.RoleModifier:
		return resolveModifier(left, right, out)
	case content.RoleOperatorKind:
		return resolveOperatorKind(left, right, out)
	case content.RoleIsUpper:
		return resolveIsUpper(left, right, out)
	default:
		return nil, fault.New(fault.UnhandledContentRole, "role %s has no conflict-resolution policy", role)
	}
}

func (m *Merger) resolveSentinel(role content.Role, base, left, right *content.Candidate, out *Outcome) (any, error) {
	sentinel := fmt.Sprintf("__SPORK_CONFLICT_%d", m.sentinelCount)
	m.sentinelCount++

	leftText, _ := left.Value.(string)
	rightText, _ := right.Value.(string)
	m.global[sentinel] = content.SentinelConflict{Left: leftText, Right: rightText}

	conflict := content.Conflict{Role: role, Left: *left, Right: *right}
	if base != nil {
		b := *base
		conflict.Base = &b
	}
	out.Conflicts = append(out.Conflicts, conflict)
	return sentinel, nil
}

func resolveModifier(left, right *content.Candidate, out *Outcome) (any, error) {
	leftSet, _ := left.Value.([]content.Modifier)
	rightSet, _ := right.Value.([]content.Modifier)

	var leftVisibility, rightVisibility *content.Modifier
	seen := map[string]content.Modifier{}
	for _, mod := range leftSet {
		if mod.Category == content.ModifierVisibility {
			m := mod
			leftVisibility = &m
			continue
		}
		seen[mod.Token] = mod
	}
	for _, mod := range rightSet {
		if mod.Category == content.ModifierVisibility {
			m := mod
			rightVisibility = &m
			continue
		}
		seen[mod.Token] = mod
	}

	merged := make([]content.Modifier, 0, len(seen)+1)
	switch {
	case leftVisibility != nil && rightVisibility != nil:
		merged = append(merged, *leftVisibility)
		if leftVisibility.Token != rightVisibility.Token {
			out.LocalConflicts[leftVisibility.Token] = content.LocalConflict{Left: leftVisibility.Token, Right: rightVisibility.Token}
		}
	case leftVisibility != nil:
		merged = append(merged, *leftVisibility)
	case rightVisibility != nil:
		merged = append(merged, *rightVisibility)
		out.LocalConflicts[""] = content.LocalConflict{Left: "", Right: rightVisibility.Token}
	}
	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	for _, tok := range tokens {
		merged = append(merged, seen[tok])
	}
	return merged, nil
}

func resolveOperatorKind(left, right *content.Candidate, out *Outcome) (any, error) {
	lv, _ := left.Value.(content.OperatorValue)
	rv, _ := right.Value.(content.OperatorValue)
	if lv.Category != rv.Category {
		return nil, fault.New(fault.UnhandledContentRole, "OPERATOR_KIND categories diverge (%q vs %q)", lv.Category, rv.Category)
	}
	leftText, rightText := lv.Symbol, rv.Symbol
	if lv.CompoundAssign {
		leftText += "="
	}
	if rv.CompoundAssign {
		rightText += "="
	}
	if leftText != rightText {
		out.LocalConflicts[leftText] = content.LocalConflict{Left: leftText, Right: rightText}
	}
	return lv, nil
}

func resolveIsUpper(left, right *content.Candidate, out *Outcome) (any, error) {
	lv, _ := left.Value.(content.IsUpperValue)
	rv, _ := right.Value.(content.IsUpperValue)
	if lv.Keyword != rv.Keyword {
		out.LocalConflicts[lv.Keyword] = content.LocalConflict{Left: lv.Keyword, Right: rv.Keyword}
	}
	return lv, nil
}

func (m *Merger) resolveComment(base, left, right *content.Candidate, out *Outcome) (any, error) {
	baseText, _ := rawText(base)
	leftText, _ := rawText(left)
	rightText, _ := rawText(right)

	merged, conflict := mergeLines(baseText, leftText, rightText)
	if conflict {
		out.HasCommentConflict = true
		out.CommentConflictText = merged
	}
	return merged, nil
}

func rawText(c *content.Candidate) (string, bool) {
	if c == nil {
		return "", false
	}
	if c.Metadata != nil {
		if raw, ok := c.Metadata["rawText"].(string); ok {
			return raw, true
		}
	}
	s, ok := c.Value.(string)
	return s, ok
}
