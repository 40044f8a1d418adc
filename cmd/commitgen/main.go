// Command commitgen drafts commit messages from the staged diff with an LLM
// provider and commits on the user's behalf. It can also regenerate and
// rewrite the message of an existing commit.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/git"
	"github.com/julianchen24/commitgen/internal/history"
	"github.com/julianchen24/commitgen/internal/preset"
	"github.com/julianchen24/commitgen/internal/prompt"
	"github.com/julianchen24/commitgen/internal/provider"
)

// Seams for command tests.
var (
	generateMessageFn = generateMessage
	recordCommitFn    = history.RecordCommit
	promptYesNoFn     = promptYesNo
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flagDryRun bool

	cmd := &cobra.Command{
		Use:   "commitgen [-- git commit args...]",
		Short: "Generate git commit messages via LLMs",
		Long: "commitgen sends the staged diff to an LLM provider, turns the answer into\n" +
			"a commit message, and runs `git commit`. Trailing arguments are forwarded\n" +
			"to `git commit` verbatim.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg, args, flagDryRun)
		},
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the generated message without committing")

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newAlterCmd())
	cmd.AddCommand(newUndoCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newTagCmd())
	cmd.AddCommand(newPresetCmd())

	cmd.SetContext(signalContext())
	cmd.SilenceUsage = true

	return cmd
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, extraArgs []string, dryRun bool) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key configured; run `commitgen config` or set COMMITGEN_API_KEY")
	}

	runner := &git.Runner{}
	diff, err := runner.StagedDiff()
	if err != nil {
		return err
	}

	if cfg.WarnStagedFilesEnabled {
		if proceed, err := confirmLargeStagedSet(cmd, runner, cfg.WarnStagedFilesThreshold); err != nil {
			return err
		} else if !proceed {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
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

	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), final)
		return nil
	}

	if cfg.ReviewCommit && isInteractive(os.Stdin) {
		fmt.Fprintf(cmd.OutOrStdout(), "Generated message:\n\n%s\n\n", final)
		ok, err := promptYesNoFn("Commit with this message? [y/N]: ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	if err := runner.Commit(final, extraArgs, cfg.SuppressToolOutput); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}

	rememberCommit(cmd, runner, final)

	return maybePush(cmd, runner, cfg)
}

// rememberCommit records the new commit in the local history. Failures are
// reported but never fail the commit that already happened.
func rememberCommit(cmd *cobra.Command, runner *git.Runner, message string) {
	root, err := runner.RepoRoot()
	if err != nil {
		return
	}
	head, err := runner.ResolveCommit("HEAD")
	if err != nil {
		return
	}
	if err := recordCommitFn(root, head, firstLine(message)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: could not record commit history: %v\n", err)
	}
}

func maybePush(cmd *cobra.Command, runner *git.Runner, cfg *config.Config) error {
	switch cfg.PostCommitPush {
	case "never":
		return nil
	case "always":
		return runner.Push(cfg.SuppressToolOutput)
	default: // ask
		if !isInteractive(os.Stdin) {
			return nil
		}
		ok, err := promptYesNoFn("Push to remote? [y/N]: ")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return runner.Push(cfg.SuppressToolOutput)
	}
}

func confirmLargeStagedSet(cmd *cobra.Command, runner *git.Runner, threshold int) (bool, error) {
	files, err := runner.StagedFiles()
	if err != nil {
		return false, err
	}
	if len(files) <= threshold {
		return true, nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d staged files exceed the threshold of %d\n", len(files), threshold)
	if !isInteractive(os.Stdin) {
		return true, nil
	}
	return promptYesNoFn("Generate a single message for all of them? [y/N]: ")
}

// generateMessage runs the provider chain for the given diff.
func generateMessage(cfg *config.Config, diff string) (string, string, error) {
	systemPrompt := prompt.BuildSystemPrompt(cfg)

	var candidates []provider.Candidate
	if cfg.FallbackEnabled {
		if presets, err := preset.Load(); err == nil {
			candidates = presets.Candidates(cfg)
		}
	}

	client := &provider.Client{}
	return client.GenerateWithFallback(cfg, candidates, systemPrompt, diff)
}

func isInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func promptYesNo(promptText string) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(os.Stdout, promptText)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	if len(line) > 72 {
		line = line[:72]
	}
	return line
}
