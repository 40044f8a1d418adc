package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/git"
	"github.com/julianchen24/commitgen/internal/history"
	"github.com/julianchen24/commitgen/internal/preset"
	"github.com/julianchen24/commitgen/internal/tui"
)

func newConfigCmd() *cobra.Command {
	var flagGlobal bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open the interactive configuration editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				cfg = config.Default()
			}

			editor := tui.NewSettingsEditor(cfg, func(c *config.Config) error {
				var path string
				var saveErr error
				if flagGlobal {
					path, saveErr = c.SaveGlobal()
				} else {
					path, saveErr = c.SaveLocal(".")
				}
				if saveErr != nil {
					return saveErr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", path)
				return nil
			})
			return editor.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&flagGlobal, "global", "g", false, "Edit the global config instead of the repository file")
	cmd.SilenceUsage = true
	return cmd
}

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the latest commit, keeping its changes staged",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}

			runner := &git.Runner{}
			if merge, err := runner.IsMergeCommit("HEAD"); err == nil && merge {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: HEAD is a merge commit; undoing it stages the merged changes")
			}

			if err := runner.UndoLastCommitSoft(cfg.SuppressToolOutput); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Last commit undone; changes are staged.")
			return nil
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var flagAll bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List commits generated by commitgen",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if flagAll {
				index, err := history.LoadIndex()
				if err != nil {
					return err
				}
				if len(index.Repos) == 0 {
					fmt.Fprintln(out, "No tracked repositories found.")
					return nil
				}
				for _, entry := range index.Repos {
					fmt.Fprintln(out, entry.RepoPath)
				}
				return nil
			}

			runner := &git.Runner{}
			root, err := runner.RepoRoot()
			if err != nil {
				return err
			}

			repo, err := history.LoadRepo(root)
			if err != nil {
				return err
			}
			if len(repo.Commits) == 0 {
				fmt.Fprintln(out, "No tracked commits for this repository.")
				return nil
			}

			for i := len(repo.Commits) - 1; i >= 0; i-- {
				record := repo.Commits[i]
				fmt.Fprintf(out, "%s  %s\n", shortHash(record.Hash), record.MessagePreview)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagAll, "all", false, "List all tracked repositories instead of commits")
	cmd.SilenceUsage = true
	return cmd
}

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Create the next minor version tag at HEAD",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}

			runner := &git.Runner{}
			latest, err := runner.LatestTag()
			if err != nil {
				return err
			}

			next, err := git.NextMinorTag(latest)
			if err != nil {
				return err
			}

			if err := runner.CreateTag(next, cfg.SuppressToolOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s\n", next)
			return nil
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved provider presets and the fallback order",
	}

	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetSaveCmd())
	cmd.AddCommand(newPresetDeleteCmd())
	cmd.AddCommand(newPresetOrderCmd())
	cmd.SilenceUsage = true
	return cmd
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := preset.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(file.Presets) == 0 {
				fmt.Fprintln(out, "No presets saved.")
				return nil
			}
			for _, p := range file.Presets {
				fmt.Fprintf(out, "%3d  %-20s %s/%s\n", p.ID, p.Name, p.Fields.Provider, p.Fields.Model)
			}
			if len(file.Fallback.Order) > 0 {
				fmt.Fprintf(out, "Fallback order: %s\n", joinIDs(file.Fallback.Order))
			}
			return nil
		},
	}
}

func newPresetSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME",
		Short: "Save the active provider credentials as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}

			file, err := preset.Load()
			if err != nil {
				return err
			}

			fields := preset.FieldsFromConfig(cfg)
			if id, dup := file.FindDuplicate(fields); dup {
				return fmt.Errorf("an identical preset already exists (id %d)", id)
			}

			id := file.Add(args[0], fields)
			if err := preset.Save(file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q (id %d)\n", args[0], id)
			return nil
		},
	}
}

func newPresetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid preset id: %s", args[0])
			}

			file, err := preset.Load()
			if err != nil {
				return err
			}
			if _, ok := file.ByID(id); !ok {
				return fmt.Errorf("no preset with id %d", id)
			}

			file.Delete(id)
			if err := preset.Save(file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %d\n", id)
			return nil
		},
	}
}

func newPresetOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order ID...",
		Short: "Set the fallback order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := preset.Load()
			if err != nil {
				return err
			}

			var order []int
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid preset id: %s", arg)
				}
				if _, ok := file.ByID(id); !ok {
					return fmt.Errorf("no preset with id %d", id)
				}
				order = append(order, id)
			}

			file.Fallback.Order = order
			if err := preset.Save(file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fallback order: %s\n", joinIDs(order))
			return nil
		},
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func shortHash(hash string) string {
	if len(hash) <= 7 {
		return hash
	}
	return hash[:7]
}
