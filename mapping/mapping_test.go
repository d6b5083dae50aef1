package mapping

import (
	"testing"

	"pcsmerge/node"
)

func TestMapMapping_GetDstAndGetSrc(t *testing.T) {
	base := node.Wrap(new(int), node.Base)
	dst := node.Wrap(new(int), node.Left)

	m := NewMapMapping(map[node.Node]node.Node{base: dst})

	gotDst, ok := m.GetDst(base)
	if !ok || gotDst != dst {
		t.Fatalf("GetDst(base) = %v, %v; want %v, true", gotDst, ok, dst)
	}
	gotSrc, ok := m.GetSrc(dst)
	if !ok || gotSrc != base {
		t.Fatalf("GetSrc(dst) = %v, %v; want %v, true", gotSrc, ok, base)
	}

	other := node.Wrap(new(int), node.Right)
	if _, ok := m.GetDst(other); ok {
		t.Fatalf("GetDst(unregistered) should miss")
	}
}

func TestMapMapping_Put(t *testing.T) {
	m := NewMapMapping(nil)
	base := node.Wrap(new(int), node.Base)
	dst := node.Wrap(new(int), node.Right)

	m.Put(base, dst)

	if got, ok := m.GetDst(base); !ok || got != dst {
		t.Fatalf("GetDst after Put = %v, %v; want %v, true", got, ok, dst)
	}
	if got, ok := m.GetSrc(dst); !ok || got != base {
		t.Fatalf("GetSrc after Put = %v, %v; want %v, true", got, ok, base)
	}
}
