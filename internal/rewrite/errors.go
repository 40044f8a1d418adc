package rewrite

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by CommitMessage. Callers match them with
// errors.Is; the strategy that produced a failure is never exposed.
var (
	// ErrUnknownCommit means the target reference does not name an
	// existing commit.
	ErrUnknownCommit = errors.New("commit reference not found")

	// ErrMergeCommit means the target has more than one parent. Rewording
	// a non-tip merge is rejected outright because reattaching its parents
	// after the reword is not a single well-defined operation.
	ErrMergeCommit = errors.New("altering non-HEAD merge commits is not supported")

	// ErrNotOnBranch means the target is not an ancestor of HEAD, so no
	// rebase range can express the rewrite.
	ErrNotOnBranch = errors.New("target commit must be on the current branch and reachable from HEAD")

	// ErrConflict means the non-interactive rebase exited non-zero, most
	// commonly because replaying a descendant commit conflicted. The
	// repository is left in git's own paused state; resolving or running
	// `git rebase --abort` is up to the user.
	ErrConflict = errors.New("rewriting commit message failed during rebase; resolve conflicts and run `git rebase --abort` if needed")
)

// ExecError reports a failed amend of the tip commit, carrying the exit
// status of the underlying git invocation.
type ExecError struct {
	ExitCode int
	Err      error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("git commit --amend exited with status %d", e.ExitCode)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ResourceError reports a failure to materialize a helper script before any
// repository mutation happened. The repository is guaranteed untouched.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("write helper script %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
