package merge_test

import (
	"strings"
	"testing"

	"pcsmerge/content"
	"pcsmerge/langmodel"
	"pcsmerge/merge"
	"pcsmerge/node"
	"pcsmerge/treebuild"
)

func TestInterpret_RenameConflict(t *testing.T) {
	in := langmodel.RenameConflictScenario()
	root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if !hasConflicts {
		t.Fatalf("want hasConflicts = true")
	}

	cu := root.(*langmodel.CompilationUnit)
	td := cu.TypeDecl.(*langmodel.TypeDecl)
	method := td.Members[0].(*langmodel.Method)

	if !strings.HasPrefix(method.Name, "__SPORK_CONFLICT_") {
		t.Fatalf("want sentinel name, got %q", method.Name)
	}
	globals, _ := method.Metadata(treebuild.MetaGlobalConflictMap).(map[string]content.SentinelConflict)
	entry, ok := globals[method.Name]
	if !ok || entry.Left != "bar" || entry.Right != "baz" {
		t.Fatalf("unexpected global conflict entry for %q: %+v", method.Name, entry)
	}
}

func TestInterpret_ModifierUnion(t *testing.T) {
	in := langmodel.ModifierUnionScenario()
	root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if hasConflicts {
		t.Fatalf("modifier union must not report a conflict")
	}

	cu := root.(*langmodel.CompilationUnit)
	td := cu.TypeDecl.(*langmodel.TypeDecl)
	method := td.Members[0].(*langmodel.Method)

	tokens := map[string]bool{}
	for _, m := range method.Modifiers {
		tokens[m.Token] = true
	}
	for _, want := range []string{"final", "static", "synchronized"} {
		if !tokens[want] {
			t.Fatalf("want %q in merged modifiers, got %+v", want, method.Modifiers)
		}
	}
}

func TestInterpret_VisibilityConflict(t *testing.T) {
	in := langmodel.VisibilityConflictScenario()
	root, _, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	cu := root.(*langmodel.CompilationUnit)
	td := cu.TypeDecl.(*langmodel.TypeDecl)
	method := td.Members[0].(*langmodel.Method)

	var visibility string
	for _, m := range method.Modifiers {
		if m.Category == content.ModifierVisibility {
			visibility = m.Token
		}
	}
	if visibility != "private" {
		t.Fatalf("want LEFT's visibility to win, got %q", visibility)
	}
	local, _ := method.Metadata(treebuild.MetaLocalConflictMap).(map[string]content.LocalConflict)
	if lc, ok := local["private"]; !ok || lc.Right != "protected" {
		t.Fatalf("want local conflict private/protected, got %+v", local)
	}
}

func TestInterpret_CommentConflict(t *testing.T) {
	in := langmodel.CommentConflictScenario()
	root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if !hasConflicts {
		t.Fatalf("want hasConflicts = true")
	}
	cu := root.(*langmodel.CompilationUnit)
	td := cu.TypeDecl.(*langmodel.TypeDecl)
	comment := td.Members[0].(*langmodel.Comment)

	marked, ok := comment.Metadata(treebuild.MetaCommentConflict).(string)
	if !ok || !strings.Contains(marked, "<<<<<<< LEFT") {
		t.Fatalf("want conflict-marked comment text, got %q (ok=%v)", marked, ok)
	}
}

func TestInterpret_TypeMemberAutoResolution(t *testing.T) {
	in := langmodel.TypeMemberAutoResolutionScenario()
	root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if hasConflicts {
		t.Fatalf("auto-resolved type members must not report a conflict")
	}
	cu := root.(*langmodel.CompilationUnit)
	td := cu.TypeDecl.(*langmodel.TypeDecl)
	if len(td.Members) != 3 {
		t.Fatalf("want 3 concatenated members (m1, m2, m3), got %d", len(td.Members))
	}
	// m1 comes from BASE, m2 only from LEFT, m3 only from RIGHT, so each
	// member's SINGLE_REVISION tag identifies it and pins left-then-right.
	for i, want := range []node.Revision{node.Base, node.Left, node.Right} {
		got, _ := td.Members[i].(*langmodel.Method).Metadata(treebuild.MetaSingleRevision).(node.Revision)
		if got != want {
			t.Fatalf("want members ordered m1 (BASE), m2 (LEFT), m3 (RIGHT); member %d is %v", i, got)
		}
	}
}

func TestInterpret_SuccessorConflict(t *testing.T) {
	in := langmodel.SuccessorConflictScenario()
	root, hasConflicts, err := merge.NewInterpreter(in).Interpret()
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if !hasConflicts {
		t.Fatalf("want hasConflicts = true")
	}
	cu := root.(*langmodel.CompilationUnit)
	td := cu.TypeDecl.(*langmodel.TypeDecl)
	method := td.Members[0].(*langmodel.Method)

	if len(method.Body) != 3 {
		t.Fatalf("want [s1, placeholder, s3], got %d body statements", len(method.Body))
	}
	placeholder := method.Body[1]
	sc, ok := placeholder.Metadata(treebuild.MetaStructuralConflict).(treebuild.StructuralConflict)
	if !ok {
		t.Fatalf("want a STRUCTURAL_CONFLICT placeholder at body[1]")
	}
	if len(sc.LeftOriginals) != 1 || len(sc.RightOriginals) != 1 {
		t.Fatalf("want one left and one right original, got %+v", sc)
	}
}
