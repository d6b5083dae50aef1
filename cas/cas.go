// Package cas content-addresses merge inputs and outputs: every change set
// and every merged tree snapshot is identified by the BLAKE3 hash of its
// canonical JSON encoding, so repeated runs and audit records can be
// compared without re-walking the tree.
package cas

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"lukechampine.com/blake3"
)

// Hash is a content address: the hex-encoded BLAKE3 digest of a canonical
// JSON encoding.
type Hash string

// HashOf canonicalizes v (recursively sorting map keys so encoding/json's
// output is stable across Go versions and runs) and returns its content
// address.
func HashOf(v any) (Hash, error) {
	canon, err := canonicalize(v)
	if err != nil {
		return "", fmt.Errorf("cas: canonicalizing value: %w", err)
	}
	encoded, err := json.Marshal(canon)
	if err != nil {
		return "", fmt.Errorf("cas: encoding canonical value: %w", err)
	}
	sum := blake3.Sum256(encoded)
	return Hash(hex.EncodeToString(sum[:])), nil
}

// canonicalize round-trips v through JSON so maps and structs alike become
// plain Go values with deterministically ordered keys (encoding/json.Marshal
// already sorts map[string]T keys; canonicalize exists to normalize structs
// and nested maps the same way before the final Marshal). A value that
// json.Marshal rejects, such as a map[any]any, makes it return an error.
func canonicalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return sortedCopy(decoded), nil
}

func sortedCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(x))
		for _, k := range keys {
			out[k] = sortedCopy(x[k])
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = sortedCopy(e)
		}
		return out
	default:
		return x
	}
}

// Snapshot is a content-addressed record of one merge run's input and
// output, suitable for storing alongside the audit log.
type Snapshot struct {
	ChangeSetHash Hash `json:"change_set_hash"`
	ResultHash    Hash `json:"result_hash"`
}

// treeSnapshot is the composite value HashTree actually hashes: the merged
// root plus whatever conflict metadata the caller extracted from it, so two
// merges that produced the same tree but different conflict dictionaries
// still hash differently.
type treeSnapshot struct {
	Root      any `json:"root"`
	Conflicts any `json:"conflicts"`
}

// HashTree hashes a merged tree root together with its conflict metadata
// (sentinel dictionaries, local conflict maps, whatever the caller has
// already pulled off the tree's elements) into a single content address.
// Only the exported fields of root and conflicts are considered, since
// json.Marshal is what HashOf canonicalizes — this is sufficient for the
// determinism property in spec.md §8, which only needs two runs over
// identical inputs to agree, not a byte-exact tree dump.
func HashTree(root any, conflicts any) (Hash, error) {
	return HashOf(treeSnapshot{Root: root, Conflicts: conflicts})
}
