// Package prompt assembles the system prompt sent with a diff and expands
// $VARIABLE placeholders in provider URLs and headers.
package prompt

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/julianchen24/commitgen/internal/config"
)

const conventionalCommitSpec = `Follow the Conventional Commits specification:
- Prefix with a type: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert
- Optionally add a scope in parentheses: feat(parser):
- Follow with a colon and space, then a short description
- Examples: feat: add user login, fix(api): handle null response, docs: update README`

const gitmojiUnicodeSpec = "Use Gitmoji: start the commit message with a relevant emoji in unicode format.\n" +
	"Examples: ⚡️ Improve performance, \U0001f41b Fix bug, ✨ Add new feature, " +
	"♻️ Refactor code, \U0001f4dd Update docs, \U0001f3a8 Improve UI"

const gitmojiShortcodeSpec = "Use Gitmoji: start the commit message with a relevant emoji in :shortcode: format.\n" +
	"Examples: :zap: Improve performance, :bug: Fix bug, :sparkles: Add new feature, " +
	":recycle: Refactor code, :memo: Update docs, :art: Improve UI"

// BuildSystemPrompt composes the system prompt from the configured base
// prompt and the enabled style constraints.
func BuildSystemPrompt(cfg *config.Config) string {
	parts := []string{cfg.SystemPrompt, conventionalCommitSpec}

	if cfg.UseGitmoji {
		if cfg.GitmojiFormat == "shortcode" {
			parts = append(parts, gitmojiShortcodeSpec)
		} else {
			parts = append(parts, gitmojiUnicodeSpec)
		}
	}

	if cfg.OneLiner {
		parts = append(parts, "Output ONLY a single line. No body, no footer, no explanations.")
	}

	if cfg.Locale != "en" && cfg.Locale != "" {
		parts = append(parts, fmt.Sprintf("Write the commit message in the '%s' locale.", cfg.Locale))
	}

	parts = append(parts, "Use present tense. Be concise. Output only the raw commit message, nothing else.")
	return strings.Join(parts, "\n\n")
}

var placeholderPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Interpolate expands $NAME placeholders in template. COMMITGEN_PROVIDER,
// COMMITGEN_MODEL, COMMITGEN_API_KEY, and COMMITGEN_LOCALE resolve from the
// configuration; anything else falls back to the process environment, and
// unknown names expand to an empty string.
func Interpolate(template string, cfg *config.Config) string {
	values := map[string]string{
		"COMMITGEN_PROVIDER": cfg.Provider,
		"COMMITGEN_MODEL":    cfg.Model,
		"COMMITGEN_API_KEY":  cfg.APIKey,
		"COMMITGEN_LOCALE":   cfg.Locale,
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1:]
		if v, ok := values[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
}
