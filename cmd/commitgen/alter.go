package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/git"
	"github.com/julianchen24/commitgen/internal/rewrite"
)

func newAlterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alter HASH [NEWER_HASH]",
		Short: "Regenerate and rewrite an existing commit's message",
		Long: "With one hash, the commit's own diff is sent to the provider and its\n" +
			"message rewritten. With two hashes, the older..newer diff is used and the\n" +
			"newer commit is the one rewritten.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key configured; run `commitgen config` or set COMMITGEN_API_KEY")
			}
			return runAlter(cmd, cfg, args)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runAlter(cmd *cobra.Command, cfg *config.Config, args []string) error {
	runner := &git.Runner{}

	var diff, target string
	var err error
	if len(args) == 2 {
		// The second, newer reference is the rewrite target.
		target = args[1]
		diff, err = runner.RangeDiff(args[0], args[1])
	} else {
		target = args[0]
		diff, err = runner.CommitDiff(args[0])
	}
	if err != nil {
		return err
	}

	if pushed, err := runner.CommitIsPushed(target); err == nil && pushed {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is already on a remote; rewriting it changes published history\n", target)
		if isInteractive(os.Stdin) {
			ok, err := promptYesNoFn("Rewrite anyway? [y/N]: ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
	}

	message, fallbackName, err := generateMessageFn(cfg, diff)
	if err != nil {
		return err
	}
	if fallbackName != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "fallback: generated with preset %q after primary failed\n", fallbackName)
	}

	final := strings.ReplaceAll(cfg.CommitTemplate, "$msg", strings.TrimSpace(message))

	rewriter := &rewrite.Rewriter{Git: runner}
	if err := rewriter.CommitMessage(target, final, cfg.SuppressToolOutput); err != nil {
		return describeRewriteError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %s:\n%s\n", target, final)
	return nil
}

// describeRewriteError keeps the closed rewrite error set but adds the
// recovery hint the terminal user needs.
func describeRewriteError(err error) error {
	switch {
	case errors.Is(err, rewrite.ErrConflict):
		return fmt.Errorf("%w\nThe repository is paused mid-rebase; nothing was cleaned up automatically", err)
	default:
		return err
	}
}
