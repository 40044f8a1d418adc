package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianchen24/commitgen/internal/config"
)

// isolate points the user config dir at an empty directory so tests never
// read the developer's real configuration.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "groq", cfg.Provider)
	require.Equal(t, "llama-3.3-70b-versatile", cfg.Model)
	require.Equal(t, "en", cfg.Locale)
	require.True(t, cfg.OneLiner)
	require.Equal(t, "$msg", cfg.CommitTemplate)
	require.Equal(t, "ask", cfg.PostCommitPush)
	require.True(t, cfg.FallbackEnabled)
	require.Equal(t, 20, cfg.WarnStagedFilesThreshold)
}

func TestRepoFileOverridesHomeFile(t *testing.T) {
	configHome := isolate(t)

	homeDir := filepath.Join(configHome, "commitgen")
	require.NoError(t, os.MkdirAll(homeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(homeDir, "config.yml"),
		[]byte("provider: openai\nlocale: de\n"), 0o600))

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".commitgen.yml"),
		[]byte("provider: anthropic\n"), 0o600))

	cfg, err := config.Load(repo)
	require.NoError(t, err)

	require.Equal(t, "anthropic", cfg.Provider, "repository file wins over the user file")
	require.Equal(t, "de", cfg.Locale, "fields the repository file omits fall through")
	require.Equal(t, "llama-3.3-70b-versatile", cfg.Model, "untouched fields keep defaults")
}

func TestEnvOverridesFiles(t *testing.T) {
	isolate(t)

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".commitgen.yml"),
		[]byte("provider: openai\noneLiner: true\n"), 0o600))

	t.Setenv("COMMITGEN_PROVIDER", "mistral")
	t.Setenv("COMMITGEN_ONE_LINER", "false")
	t.Setenv("COMMITGEN_WARN_STAGED_FILES_THRESHOLD", "5")

	cfg, err := config.Load(repo)
	require.NoError(t, err)

	require.Equal(t, "mistral", cfg.Provider)
	require.False(t, cfg.OneLiner)
	require.Equal(t, 5, cfg.WarnStagedFilesThreshold)
}

func TestBlankEnvValueIsIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("COMMITGEN_PROVIDER", "   ")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "groq", cfg.Provider)
}

func TestInvalidEnvBool(t *testing.T) {
	isolate(t)
	t.Setenv("COMMITGEN_USE_GITMOJI", "maybe")

	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "COMMITGEN_USE_GITMOJI")
}

func TestValidation(t *testing.T) {
	isolate(t)

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".commitgen.yml"),
		[]byte("postCommitPush: sometimes\n"), 0o600))

	_, err := config.Load(repo)
	require.Error(t, err)
	require.Contains(t, err.Error(), "postCommitPush")

	require.NoError(t, os.WriteFile(filepath.Join(repo, ".commitgen.yml"),
		[]byte("gitmojiFormat: emoji\n"), 0o600))

	_, err = config.Load(repo)
	require.Error(t, err)
	require.Contains(t, err.Error(), "gitmojiFormat")
}

func TestSaveLocalRoundTrip(t *testing.T) {
	isolate(t)

	cfg := config.Default()
	cfg.Provider = "ollama"
	cfg.Model = "llama3"
	cfg.UseGitmoji = true

	repo := t.TempDir()
	path, err := cfg.SaveLocal(repo)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(repo, ".commitgen.yml"), path)

	loaded, err := config.Load(repo)
	require.NoError(t, err)
	require.Equal(t, "ollama", loaded.Provider)
	require.Equal(t, "llama3", loaded.Model)
	require.True(t, loaded.UseGitmoji)
}

func TestMalformedRepoFile(t *testing.T) {
	isolate(t)

	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".commitgen.yml"),
		[]byte(":\nnot yaml: [\n"), 0o600))

	_, err := config.Load(repo)
	require.Error(t, err)
}
