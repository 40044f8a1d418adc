package git

import (
	"fmt"
	"strings"
)

// StagedDiff returns the output of `git diff --staged`. An empty diff is an
// error because there is nothing to describe.
func (r *Runner) StagedDiff() (string, error) {
	stdout, stderr, err := r.Run("diff", "--staged")
	if err != nil {
		return "", fmt.Errorf("staged diff: %w (%s)", err, strings.TrimSpace(stderr))
	}
	if strings.TrimSpace(stdout) == "" {
		return "", fmt.Errorf("no staged changes found; stage files with `git add <files>` first")
	}
	return stdout, nil
}

// StagedFiles lists the paths of all files in the staged diff.
func (r *Runner) StagedFiles() ([]string, error) {
	stdout, stderr, err := r.Run("diff", "--staged", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("staged files: %w (%s)", err, strings.TrimSpace(stderr))
	}

	var files []string
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// CommitDiff returns the diff introduced by a single commit.
func (r *Runner) CommitDiff(ref string) (string, error) {
	if err := r.ensureCommit(ref); err != nil {
		return "", err
	}

	stdout, stderr, err := r.Run("show", "--format=", "--no-color", ref)
	if err != nil {
		return "", fmt.Errorf("show %s: %w (%s)", ref, err, strings.TrimSpace(stderr))
	}
	if strings.TrimSpace(stdout) == "" {
		return "", fmt.Errorf("commit %s has no diff to analyze", ref)
	}
	return stdout, nil
}

// RangeDiff returns the combined diff between two commits.
func (r *Runner) RangeDiff(older, newer string) (string, error) {
	if err := r.ensureCommit(older); err != nil {
		return "", err
	}
	if err := r.ensureCommit(newer); err != nil {
		return "", err
	}

	stdout, stderr, err := r.Run("diff", "--no-color", older, newer)
	if err != nil {
		return "", fmt.Errorf("diff %s..%s: %w (%s)", older, newer, err, strings.TrimSpace(stderr))
	}
	if strings.TrimSpace(stdout) == "" {
		return "", fmt.Errorf("no diff found for range %s..%s", older, newer)
	}
	return stdout, nil
}

func (r *Runner) ensureCommit(ref string) error {
	exists, err := r.CommitExists(ref)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("commit reference not found: %s", ref)
	}
	return nil
}
