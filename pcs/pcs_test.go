package pcs

import (
	"testing"

	"pcsmerge/node"
)

func TestClassify_PredecessorConflict(t *testing.T) {
	root := node.Wrap(new(int), node.Base)
	succ := node.Wrap(new(int), node.Base)
	a := Triple{Root: root, Predecessor: node.Wrap(new(int), node.Left), Successor: succ, Revision: node.Left}
	b := Triple{Root: root, Predecessor: node.Wrap(new(int), node.Right), Successor: succ, Revision: node.Right}

	kind, ok := Classify(a, b)
	if !ok || kind != PredecessorConflict {
		t.Fatalf("want PredecessorConflict, got kind=%v ok=%v", kind, ok)
	}
}

func TestClassify_SuccessorConflict(t *testing.T) {
	root := node.Wrap(new(int), node.Base)
	pred := node.Wrap(new(int), node.Base)
	a := Triple{Root: root, Predecessor: pred, Successor: node.Wrap(new(int), node.Left), Revision: node.Left}
	b := Triple{Root: root, Predecessor: pred, Successor: node.Wrap(new(int), node.Right), Revision: node.Right}

	kind, ok := Classify(a, b)
	if !ok || kind != SuccessorConflict {
		t.Fatalf("want SuccessorConflict, got kind=%v ok=%v", kind, ok)
	}
}

func TestClassify_RootConflict(t *testing.T) {
	pred := node.Wrap(new(int), node.Base)
	succ := node.Wrap(new(int), node.Base)
	a := Triple{Root: node.Wrap(new(int), node.Left), Predecessor: pred, Successor: succ, Revision: node.Left}
	b := Triple{Root: node.Wrap(new(int), node.Right), Predecessor: pred, Successor: succ, Revision: node.Right}

	kind, ok := Classify(a, b)
	if !ok || kind != RootConflict {
		t.Fatalf("want RootConflict, got kind=%v ok=%v", kind, ok)
	}
}

func TestClassify_DifferentRevisionsAgreeingIsNotAConflict(t *testing.T) {
	root := node.Wrap(new(int), node.Base)
	pred := node.Wrap(new(int), node.Base)
	succ := node.Wrap(new(int), node.Base)
	a := Triple{Root: root, Predecessor: pred, Successor: succ, Revision: node.Left}
	b := Triple{Root: root, Predecessor: pred, Successor: succ, Revision: node.Right}

	if _, ok := Classify(a, b); ok {
		t.Fatalf("two revisions agreeing on the same triple must not conflict")
	}
}

func TestChangeSet_ByPredecessorOrdersLeftBeforeRight(t *testing.T) {
	root := node.Wrap(new(int), node.Base)
	pred := node.Wrap(new(int), node.Base)
	right := Triple{Root: root, Predecessor: pred, Successor: node.Wrap(new(int), node.Right), Revision: node.Right}
	left := Triple{Root: root, Predecessor: pred, Successor: node.Wrap(new(int), node.Left), Revision: node.Left}

	cs := NewChangeSet([]Triple{right, left}, nil, nil)
	got := cs.ByPredecessor(root, pred)
	if len(got) != 2 || got[0].Revision != node.Left || got[1].Revision != node.Right {
		t.Fatalf("want [LEFT, RIGHT] order, got %+v", got)
	}
}
