package rewrite

import "fmt"

// target is the classified form of a user-supplied commit reference. It is
// built once per rewrite call and never cached: history can change between
// calls, so yesterday's classification is worthless.
type target struct {
	ref string
	id  string

	isTip bool
}

// classify resolves ref and decides which of the admissible rewrite
// situations applies. It performs read-only queries only; no repository
// mutation happens until classification has fully succeeded.
func (rw *Rewriter) classify(ref string) (target, error) {
	g := rw.git()

	exists, err := g.CommitExists(ref)
	if err != nil {
		return target{}, err
	}
	if !exists {
		return target{}, fmt.Errorf("%s: %w", ref, ErrUnknownCommit)
	}

	id, err := g.ResolveCommit(ref)
	if err != nil {
		return target{}, err
	}
	head, err := g.ResolveCommit("HEAD")
	if err != nil {
		return target{}, err
	}

	t := target{ref: ref, id: id}
	if id == head {
		t.isTip = true
		return t, nil
	}

	merge, err := g.IsMergeCommit(ref)
	if err != nil {
		return target{}, err
	}
	if merge {
		return target{}, fmt.Errorf("%s: %w", ref, ErrMergeCommit)
	}

	ancestor, err := g.IsAncestorOfHead(ref)
	if err != nil {
		return target{}, err
	}
	if !ancestor {
		return target{}, fmt.Errorf("%s: %w", ref, ErrNotOnBranch)
	}

	return t, nil
}
