// Package rewrite changes the message of an existing commit without
// disturbing any other commit's tree content. The tip commit is amended in
// place; an ancestor is reworded by driving `git rebase -i` non-interactively
// through disposable editor scripts.
//
// The repository is ambient, process-wide mutable state with no in-process
// lock. Callers must ensure a single writer; two overlapping rewrites of the
// same range have undefined results.
package rewrite

import (
	"fmt"
	"os"

	"github.com/julianchen24/commitgen/internal/git"
)

// Rewriter rewords commits in one repository. The zero value operates on the
// current working directory and uses the system temp directory for helper
// scripts.
type Rewriter struct {
	// Git runs the underlying git commands. Nil means a default runner in
	// the current directory.
	Git *git.Runner

	// TempDir overrides where helper scripts are written. Empty means
	// os.TempDir.
	TempDir string
}

// CommitMessage replaces the message of the commit named by targetRef with
// message. The target must be the current tip or a single-parent ancestor of
// it; everything else is rejected before any mutation. suppress silences the
// underlying git output.
func (rw *Rewriter) CommitMessage(targetRef, message string, suppress bool) error {
	t, err := rw.classify(targetRef)
	if err != nil {
		return err
	}

	if t.isTip {
		return rw.amendTip(message, suppress)
	}
	return rw.rewordAncestor(t, message, suppress)
}

// amendTip rewrites the tip's message with a single in-place amend. No
// temporary resources are involved and retrying just amends again.
func (rw *Rewriter) amendTip(message string, suppress bool) error {
	if err := rw.git().AmendMessage(message, suppress); err != nil {
		return &ExecError{ExitCode: git.ExitCode(err), Err: err}
	}
	return nil
}

// rewordAncestor replays every commit after the target on top of a reworded
// target. git only exposes this as an interactive rebase, so the interactive
// hooks are replaced with generated scripts: the sequence editor marks
// exactly the target's todo entry for rewording and the message editor
// supplies the new message from the environment.
func (rw *Rewriter) rewordAncestor(t target, message string, suppress bool) error {
	scripts := newHelperScripts(rw.tempDir())
	defer scripts.remove()

	if err := scripts.write(); err != nil {
		return err
	}

	env := []string{
		"GIT_SEQUENCE_EDITOR=" + scriptCommand(scripts.sequencePath),
		"GIT_EDITOR=" + scriptCommand(scripts.messagePath),
		MessageEnvVar + "=" + message,
	}

	// The range starts at the target's immediate parent, so the target is
	// always the first todo entry the sequence editor sees.
	if err := rw.git().RunAttached(suppress, env, "rebase", "-i", t.id+"^"); err != nil {
		return fmt.Errorf("%s: %w", t.ref, ErrConflict)
	}
	return nil
}

func (rw *Rewriter) git() *git.Runner {
	if rw.Git != nil {
		return rw.Git
	}
	return &git.Runner{}
}

func (rw *Rewriter) tempDir() string {
	if rw.TempDir != "" {
		return rw.TempDir
	}
	return os.TempDir()
}
