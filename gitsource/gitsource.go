// Package gitsource loads the three revisions of a merge input (BASE,
// LEFT, RIGHT) directly out of a git repository's object store, so the CLI
// can be pointed at three refs instead of three files on disk.
package gitsource

import (
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ThreeWay is the raw source text of one path at three refs.
type ThreeWay struct {
	Base, Left, Right []byte
}

// LoadThreeWay opens repoPath and reads path as it existed at baseRef,
// leftRef, and rightRef. A ref may be any git-revision spec (`go-git`'s
// ResolveRevision): a branch, a tag, or a commit hash.
func LoadThreeWay(repoPath, baseRef, leftRef, rightRef, path string) (ThreeWay, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return ThreeWay{}, fmt.Errorf("gitsource: opening %s: %w", repoPath, err)
	}

	base, err := blobAt(repo, baseRef, path)
	if err != nil {
		return ThreeWay{}, fmt.Errorf("gitsource: reading %s at %s: %w", path, baseRef, err)
	}
	left, err := blobAt(repo, leftRef, path)
	if err != nil {
		return ThreeWay{}, fmt.Errorf("gitsource: reading %s at %s: %w", path, leftRef, err)
	}
	right, err := blobAt(repo, rightRef, path)
	if err != nil {
		return ThreeWay{}, fmt.Errorf("gitsource: reading %s at %s: %w", path, rightRef, err)
	}

	return ThreeWay{Base: base, Left: left, Right: right}, nil
}

func blobAt(repo *git.Repository, ref, path string) ([]byte, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree for commit %s: %w", hash, err)
	}
	entry, err := tree.File(path)
	if err != nil {
		if err == object.ErrFileNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up %s in tree: %w", path, err)
	}
	reader, err := entry.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening blob reader for %s: %w", path, err)
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
