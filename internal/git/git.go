package git

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes the git binary, optionally inside a specific working
// directory. The zero value runs commands in the current directory.
type Runner struct {
	Dir string
}

// Run executes git with the provided arguments and returns captured stdout
// and stderr separately.
func (r *Runner) Run(args ...string) (string, string, error) {
	cmd := r.command(args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.String(), stderr.String(), nil
}

// RunQuiet executes git with both output streams discarded and reports
// whether the command exited successfully. A start failure (git missing,
// bad working directory) is returned as an error.
func (r *Runner) RunQuiet(args ...string) (bool, error) {
	cmd := r.command(args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
}

// RunAttached executes git with the process's own standard streams so the
// user sees progress output, unless suppress is set, in which case both
// streams are discarded. Extra environment variables are appended to the
// inherited environment.
func (r *Runner) RunAttached(suppress bool, env []string, args ...string) error {
	cmd := r.command(args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	if suppress {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func (r *Runner) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	if r != nil {
		cmd.Dir = r.Dir
	}
	return cmd
}

// ExitCode extracts the subprocess exit status from an error returned by a
// Runner method. It returns -1 when the error does not carry one.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
