package git

import "fmt"

// Commit runs `git commit -m <message>` with any extra arguments forwarded
// verbatim.
func (r *Runner) Commit(message string, extraArgs []string, suppress bool) error {
	args := append([]string{"commit", "-m", message}, extraArgs...)
	return r.RunAttached(suppress, nil, args...)
}

// AmendMessage rewrites the message of the tip commit in place, leaving its
// tree and parents unchanged.
func (r *Runner) AmendMessage(message string, suppress bool) error {
	return r.RunAttached(suppress, nil, "commit", "--amend", "-m", message)
}

// Push runs `git push`.
func (r *Runner) Push(suppress bool) error {
	return r.RunAttached(suppress, nil, "push")
}

// UndoLastCommitSoft undoes the tip commit while keeping its changes staged.
func (r *Runner) UndoLastCommitSoft(suppress bool) error {
	head, err := r.HeadExists()
	if err != nil {
		return err
	}
	if !head {
		return fmt.Errorf("no commits found in this repository")
	}
	return r.RunAttached(suppress, nil, "reset", "--soft", "HEAD~1")
}
