package node

import "testing"

func TestSentinelKinds(t *testing.T) {
	marker := new(int)
	start := StartOfList(marker, Base)
	end := EndOfList(marker, Base)
	root := VirtualRoot(marker)
	ordinary := Wrap(marker, Left)

	if !start.IsStartOfList() || start.IsEndOfList() || start.IsVirtualRoot() {
		t.Fatalf("start-of-list sentinel misclassified: %+v", start)
	}
	if !end.IsEndOfList() || end.IsStartOfList() {
		t.Fatalf("end-of-list sentinel misclassified: %+v", end)
	}
	if !root.IsVirtualRoot() {
		t.Fatalf("virtual root misclassified: %+v", root)
	}
	if ordinary.IsSentinel() {
		t.Fatalf("Wrap'd node should not be a sentinel: %+v", ordinary)
	}
}

func TestStartAndEndOfListAreDistinctNodes(t *testing.T) {
	marker := new(int)
	start := StartOfList(marker, Base)
	end := EndOfList(marker, Base)
	if start == end {
		t.Fatalf("start-of-list and end-of-list sentinels sharing a marker must still compare unequal")
	}
}

func TestRevisionString(t *testing.T) {
	tests := map[Revision]string{Base: "BASE", Left: "LEFT", Right: "RIGHT", Revision(99): "UNKNOWN"}
	for rev, want := range tests {
		if got := rev.String(); got != want {
			t.Fatalf("Revision(%d).String() = %q, want %q", rev, got, want)
		}
	}
}
