package batchselect

import "testing"

func TestMatchPath(t *testing.T) {
	selector := NewSelector([]ScenarioRule{
		{Name: "rename-conflict", Paths: []string{"scenarios/rename/**"}},
		{Name: "comment-conflict", Paths: []string{"scenarios/**/*.comment.txt"}},
	})

	tests := []struct {
		path     string
		expected []string
	}{
		{"scenarios/rename/Foo.java", []string{"rename-conflict"}},
		{"scenarios/widget/x.comment.txt", []string{"comment-conflict"}},
		{"scenarios/unrelated/Bar.java", nil},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got := selector.MatchPath(tc.path)
			if len(got) != len(tc.expected) {
				t.Fatalf("MatchPath(%q) = %v, want %v", tc.path, got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Fatalf("MatchPath(%q) = %v, want %v", tc.path, got, tc.expected)
				}
			}
		})
	}
}

func TestGroupAndUnmatched(t *testing.T) {
	selector := NewSelector([]ScenarioRule{
		{Name: "rename-conflict", Paths: []string{"scenarios/rename/**"}},
	})
	paths := []string{"scenarios/rename/A.java", "scenarios/rename/B.java", "scenarios/other/C.java"}

	grouped := selector.Group(paths)
	if len(grouped["rename-conflict"]) != 2 {
		t.Fatalf("want 2 paths grouped under rename-conflict, got %v", grouped)
	}

	unmatched := selector.Unmatched(paths)
	if len(unmatched) != 1 || unmatched[0] != "scenarios/other/C.java" {
		t.Fatalf("want scenarios/other/C.java unmatched, got %v", unmatched)
	}
}
