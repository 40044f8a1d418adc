package git

import (
	"fmt"
	"strings"
)

// ResolveCommit resolves a commit reference (branch, tag, short or full hash)
// to its full object ID. Equality of resolved IDs is the only reliable way to
// compare two references.
func (r *Runner) ResolveCommit(ref string) (string, error) {
	stdout, stderr, err := r.Run("rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w (%s)", ref, err, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}

// CommitExists reports whether ref names an existing commit.
func (r *Runner) CommitExists(ref string) (bool, error) {
	return r.RunQuiet("rev-parse", "--verify", ref+"^{commit}")
}

// HeadExists reports whether the repository has at least one commit.
func (r *Runner) HeadExists() (bool, error) {
	return r.RunQuiet("rev-parse", "--verify", "HEAD")
}

// IsAncestorOfHead reports whether ref is reachable by following parent
// links from HEAD. A commit counts as its own ancestor.
func (r *Runner) IsAncestorOfHead(ref string) (bool, error) {
	return r.RunQuiet("merge-base", "--is-ancestor", ref, "HEAD")
}

// ParentCount returns the number of parents of the commit named by ref.
func (r *Runner) ParentCount(ref string) (int, error) {
	stdout, stderr, err := r.Run("rev-list", "--parents", "-n", "1", ref)
	if err != nil {
		return 0, fmt.Errorf("inspect parents of %s: %w (%s)", ref, err, strings.TrimSpace(stderr))
	}

	fields := strings.Fields(stdout)
	if len(fields) == 0 {
		return 0, fmt.Errorf("inspect parents of %s: empty rev-list output", ref)
	}
	return len(fields) - 1, nil
}

// IsMergeCommit reports whether the commit named by ref has more than one
// parent.
func (r *Runner) IsMergeCommit(ref string) (bool, error) {
	count, err := r.ParentCount(ref)
	if err != nil {
		return false, err
	}
	return count > 1, nil
}

// HasUpstream reports whether the current branch tracks an upstream branch.
func (r *Runner) HasUpstream() (bool, error) {
	return r.RunQuiet("rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
}

// CommitIsPushed reports whether ref is reachable from any remote-tracking
// branch. It returns false without error when no upstream is configured.
func (r *Runner) CommitIsPushed(ref string) (bool, error) {
	upstream, err := r.HasUpstream()
	if err != nil {
		return false, err
	}
	if !upstream {
		return false, nil
	}

	stdout, stderr, err := r.Run("branch", "-r", "--contains", ref)
	if err != nil {
		return false, fmt.Errorf("check remote branches containing %s: %w (%s)", ref, err, strings.TrimSpace(stderr))
	}

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.Contains(line, "->") {
			return true, nil
		}
	}
	return false, nil
}

// RepoRoot returns the absolute path of the repository's top-level directory.
func (r *Runner) RepoRoot() (string, error) {
	stdout, _, err := r.Run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository")
	}
	return strings.TrimSpace(stdout), nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (r *Runner) CurrentBranch() (string, error) {
	stdout, stderr, err := r.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("current branch: %w (%s)", err, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}
