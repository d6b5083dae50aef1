package contentmerge

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MergeText runs the same diff3-style line merge used internally for
// COMMENT_CONTENT on arbitrary text. It's the entry point for callers that
// have raw three-way text and no parsed tree at all — notably
// `cmd/pcsmerge merge --from-git`, which has nothing but git blobs.
func MergeText(base, left, right string) (merged string, hasConflict bool) {
	return mergeLines(base, left, right)
}

// mergeLines performs a diff3-style three-way merge of comment text,
// splitting on lines and reconciling BASE/LEFT/RIGHT the way a line-based
// source merge would: hunks that only one side touched are applied
// directly; hunks both sides touched identically collapse to one copy;
// hunks both sides touched differently are wrapped in conflict markers and
// reported via the conflict bool.
func mergeLines(base, left, right string) (string, bool) {
	if left == right {
		return left, false
	}
	if base == left {
		return right, false
	}
	if base == right {
		return left, false
	}

	baseLines := splitLines(base)
	leftHunks := diffsToHunks(baseLines, splitLines(left))
	rightHunks := diffsToHunks(baseLines, splitLines(right))

	merged, conflict := mergeHunks(baseLines, leftHunks, rightHunks)
	return strings.Join(merged, "\n"), conflict
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// hunk describes a contiguous run of base lines [start, end) replaced by
// replacement on one side. An unmodified base line never appears in a hunk.
type hunk struct {
	start, end  int
	replacement []string
}

// diffsToHunks runs a line-level diff between base and side, using
// diffmatchpatch's line-munging helpers so the underlying Myers diff
// operates on whole lines rather than runes, then collapses the result into
// base-line-range hunks.
func diffsToHunks(base, side []string) []hunk {
	dmp := diffmatchpatch.New()
	baseText := strings.Join(base, "\n")
	sideText := strings.Join(side, "\n")

	baseChars, sideChars, lineArray := dmp.DiffLinesToChars(baseText, sideText)
	diffs := dmp.DiffMain(baseChars, sideChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var hunks []hunk
	baseLine := 0
	for _, d := range diffs {
		lines := splitLines(strings.TrimSuffix(d.Text, "\n"))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			baseLine += len(lines)
		case diffmatchpatch.DiffDelete:
			hunks = append(hunks, hunk{start: baseLine, end: baseLine + len(lines), replacement: nil})
			baseLine += len(lines)
		case diffmatchpatch.DiffInsert:
			if len(hunks) > 0 && hunks[len(hunks)-1].end == baseLine && hunks[len(hunks)-1].replacement == nil {
				hunks[len(hunks)-1].replacement = lines
			} else {
				hunks = append(hunks, hunk{start: baseLine, end: baseLine, replacement: lines})
			}
		}
	}
	return hunks
}

// mergeHunks walks both sides' hunks against the shared base lines,
// applying non-overlapping edits from either side and emitting conflict
// markers where both sides edited overlapping base ranges differently.
func mergeHunks(baseLines []string, leftHunks, rightHunks []hunk) ([]string, bool) {
	baseLen := len(baseLines)
	var out []string
	conflict := false
	pos := 0
	li, ri := 0, 0

	for pos < baseLen || li < len(leftHunks) || ri < len(rightHunks) {
		var lh, rh *hunk
		if li < len(leftHunks) {
			lh = &leftHunks[li]
		}
		if ri < len(rightHunks) {
			rh = &rightHunks[ri]
		}

		nextEdit := baseLen
		if lh != nil && lh.start < nextEdit {
			nextEdit = lh.start
		}
		if rh != nil && rh.start < nextEdit {
			nextEdit = rh.start
		}
		if pos < nextEdit {
			out = append(out, baseLines[pos:nextEdit]...)
			pos = nextEdit
			continue
		}

		lActive := lh != nil && lh.start == pos
		rActive := rh != nil && rh.start == pos
		switch {
		case lActive && !rActive:
			out = append(out, lh.replacement...)
			pos = lh.end
			li++
		case rActive && !lActive:
			out = append(out, rh.replacement...)
			pos = rh.end
			ri++
		case lActive && rActive:
			if lh.end == rh.end && sameLines(lh.replacement, rh.replacement) {
				out = append(out, lh.replacement...)
			} else {
				conflict = true
				out = append(out, "<<<<<<< LEFT")
				out = append(out, lh.replacement...)
				out = append(out, "=======")
				out = append(out, rh.replacement...)
				out = append(out, ">>>>>>> RIGHT")
			}
			pos = max(lh.end, rh.end)
			li++
			ri++
		default:
			// Neither hunk starts here even though we computed nextEdit ==
			// pos; this only happens once baseLen is exhausted and no hunk
			// remains. Nothing left to do.
			pos = baseLen
		}
	}
	return out, conflict
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
