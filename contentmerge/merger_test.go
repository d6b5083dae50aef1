package contentmerge

import (
	"strings"
	"testing"

	"pcsmerge/content"
	"pcsmerge/node"
)

func TestMerge_RenameConflict(t *testing.T) {
	m := NewMerger()
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleName, Value: "total", Revision: node.Base},
		{Role: content.RoleName, Value: "totalAmount", Revision: node.Left},
		{Role: content.RoleName, Value: "sum", Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out.Conflicts) != 1 {
		t.Fatalf("want 1 conflict, got %d", len(out.Conflicts))
	}
	sentinel, _ := out.Values[0].Value.(string)
	if !strings.HasPrefix(sentinel, "__SPORK_CONFLICT_") {
		t.Fatalf("want sentinel placeholder, got %q", sentinel)
	}
	if g := m.GlobalConflicts()[sentinel]; g.Left != "totalAmount" || g.Right != "sum" {
		t.Fatalf("unexpected global entry: %+v", g)
	}
}

func TestMerge_SingleRevisionEdit(t *testing.T) {
	m := NewMerger()
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleName, Value: "total", Revision: node.Base},
		{Role: content.RoleName, Value: "total", Revision: node.Left},
		{Role: content.RoleName, Value: "sum", Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out.Conflicts) != 0 {
		t.Fatalf("want no conflicts, got %d", len(out.Conflicts))
	}
	if out.Values[0].Value != "sum" {
		t.Fatalf("want RIGHT's edit to win, got %v", out.Values[0].Value)
	}
}

func TestMerge_ModifierUnion(t *testing.T) {
	m := NewMerger()
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleModifier, Value: []content.Modifier{{Token: "public", Category: content.ModifierVisibility}}, Revision: node.Base},
		{Role: content.RoleModifier, Value: []content.Modifier{
			{Token: "public", Category: content.ModifierVisibility},
			{Token: "static", Category: content.ModifierOther},
		}, Revision: node.Left},
		{Role: content.RoleModifier, Value: []content.Modifier{
			{Token: "public", Category: content.ModifierVisibility},
			{Token: "final", Category: content.ModifierOther},
		}, Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	merged, _ := out.Values[0].Value.([]content.Modifier)
	tokens := map[string]bool{}
	for _, mod := range merged {
		tokens[mod.Token] = true
	}
	for _, want := range []string{"public", "static", "final"} {
		if !tokens[want] {
			t.Fatalf("want %q in merged modifier set, got %+v", want, merged)
		}
	}
}

func TestMerge_VisibilityConflict(t *testing.T) {
	m := NewMerger()
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleModifier, Value: []content.Modifier{{Token: "public", Category: content.ModifierVisibility}}, Revision: node.Base},
		{Role: content.RoleModifier, Value: []content.Modifier{{Token: "protected", Category: content.ModifierVisibility}}, Revision: node.Left},
		{Role: content.RoleModifier, Value: []content.Modifier{{Token: "private", Category: content.ModifierVisibility}}, Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out.LocalConflicts) != 1 {
		t.Fatalf("want a local conflict over visibility, got %+v", out.LocalConflicts)
	}
	if lc, ok := out.LocalConflicts["protected"]; !ok || lc.Right != "private" {
		t.Fatalf("unexpected local conflict entry: %+v", out.LocalConflicts)
	}
}

func TestMerge_CommentConflict(t *testing.T) {
	m := NewMerger()
	base := "computes the total"
	left := "computes the grand total"
	right := "computes the running total"
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleCommentContent, Value: base, Revision: node.Base},
		{Role: content.RoleCommentContent, Value: left, Revision: node.Left},
		{Role: content.RoleCommentContent, Value: right, Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !out.HasCommentConflict {
		t.Fatalf("want a comment conflict, got none; merged=%q", out.Values[0].Value)
	}
	if !strings.Contains(out.CommentConflictText, "<<<<<<< LEFT") {
		t.Fatalf("want conflict markers in merged text, got %q", out.CommentConflictText)
	}
}

func TestMerge_CommentSingleSidedEdit(t *testing.T) {
	m := NewMerger()
	base := "line one\nline two\nline three"
	left := "line one\nline two edited\nline three"
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleCommentContent, Value: base, Revision: node.Base},
		{Role: content.RoleCommentContent, Value: left, Revision: node.Left},
		{Role: content.RoleCommentContent, Value: base, Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out.HasCommentConflict {
		t.Fatalf("single-sided edit should not conflict")
	}
	if out.Values[0].Value != left {
		t.Fatalf("want LEFT's edit preserved verbatim, got %q", out.Values[0].Value)
	}
}

func TestMerge_OperatorKindLocalConflict(t *testing.T) {
	m := NewMerger()
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleOperatorKind, Value: content.OperatorValue{Category: "additive", Symbol: "+"}, Revision: node.Base},
		{Role: content.RoleOperatorKind, Value: content.OperatorValue{Category: "additive", Symbol: "+", CompoundAssign: true}, Revision: node.Left},
		{Role: content.RoleOperatorKind, Value: content.OperatorValue{Category: "additive", Symbol: "-"}, Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out.Conflicts) != 0 {
		t.Fatalf("OPERATOR_KIND must never produce a content.Conflict, got %d", len(out.Conflicts))
	}
	if len(out.LocalConflicts) != 1 {
		t.Fatalf("want one local conflict, got %+v", out.LocalConflicts)
	}
}

func TestMerge_IsUpperNeverSetsConflictFlag(t *testing.T) {
	m := NewMerger()
	out, err := m.Merge([]content.Candidate{
		{Role: content.RoleIsUpper, Value: content.IsUpperValue{Upper: true, Keyword: "extends"}, Revision: node.Base},
		{Role: content.RoleIsUpper, Value: content.IsUpperValue{Upper: false, Keyword: "super"}, Revision: node.Left},
		{Role: content.RoleIsUpper, Value: content.IsUpperValue{Upper: true, Keyword: "extends"}, Revision: node.Right},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out.Conflicts) != 0 || out.HasCommentConflict {
		t.Fatalf("IS_UPPER must never set a content-conflict flag")
	}
}
