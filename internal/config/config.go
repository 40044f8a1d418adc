package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	repoConfigFileName   = ".commitgen.yml"
	homeConfigFolderName = "commitgen"
	homeConfigFileName   = "config.yml"

	envPrefix = "COMMITGEN_"

	defaultSystemPrompt = "You are to act as an author of a commit message in git. " +
		"I'll send you an output of 'git diff --staged' command, and you are to convert " +
		"it into a commit message. Follow the Conventional Commits specification."
)

// Config captures user-defined behaviour for commitgen.
type Config struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"apiKey"`
	APIURL     string `yaml:"apiUrl"`
	APIHeaders string `yaml:"apiHeaders"`
	Locale     string `yaml:"locale"`

	OneLiner       bool   `yaml:"oneLiner"`
	CommitTemplate string `yaml:"commitTemplate"`
	SystemPrompt   string `yaml:"systemPrompt"`
	UseGitmoji     bool   `yaml:"useGitmoji"`
	GitmojiFormat  string `yaml:"gitmojiFormat"`

	ReviewCommit       bool   `yaml:"reviewCommit"`
	PostCommitPush     string `yaml:"postCommitPush"`
	SuppressToolOutput bool   `yaml:"suppressToolOutput"`
	FallbackEnabled    bool   `yaml:"fallbackEnabled"`

	WarnStagedFilesEnabled   bool `yaml:"warnStagedFilesEnabled"`
	WarnStagedFilesThreshold int  `yaml:"warnStagedFilesThreshold"`
}

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	return &Config{
		Provider:                 "groq",
		Model:                    "llama-3.3-70b-versatile",
		Locale:                   "en",
		OneLiner:                 true,
		CommitTemplate:           "$msg",
		SystemPrompt:             defaultSystemPrompt,
		GitmojiFormat:            "unicode",
		PostCommitPush:           "ask",
		FallbackEnabled:          true,
		WarnStagedFilesEnabled:   true,
		WarnStagedFilesThreshold: 20,
	}
}

// Load resolves configuration with layered precedence: built-in defaults,
// then the user config file, then a repository-local file, then COMMITGEN_*
// environment variables. Later layers win field by field.
func Load(repoPath string) (*Config, error) {
	base := Default()

	if fileCfg, err := loadHomeConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	} else if fileCfg != nil {
		fileCfg.applyTo(base)
	}

	repoConfigPath, err := resolveRepoConfigPath(repoPath)
	if err != nil {
		return nil, err
	}
	if fileCfg, err := loadFileConfig(repoConfigPath); err != nil {
		return nil, err
	} else if fileCfg != nil {
		fileCfg.applyTo(base)
	}

	if envCfg, err := loadEnvConfig(); err != nil {
		return nil, err
	} else if envCfg != nil {
		envCfg.applyTo(base)
	}

	if err := base.validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// SaveGlobal writes the configuration to the user config file, creating the
// directory when needed, and returns the path written.
func (c *Config) SaveGlobal() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	folder := filepath.Join(dir, homeConfigFolderName)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(folder, homeConfigFileName)
	return path, c.writeTo(path)
}

// SaveLocal writes the configuration to the repository-local file.
func (c *Config) SaveLocal(repoPath string) (string, error) {
	path, err := resolveRepoConfigPath(repoPath)
	if err != nil {
		return "", err
	}
	return path, c.writeTo(path)
}

func (c *Config) writeTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) validate() error {
	switch c.PostCommitPush {
	case "ask", "always", "never":
	default:
		return fmt.Errorf("invalid postCommitPush %q (expected ask, always, or never)", c.PostCommitPush)
	}
	switch c.GitmojiFormat {
	case "unicode", "shortcode":
	default:
		return fmt.Errorf("invalid gitmojiFormat %q (expected unicode or shortcode)", c.GitmojiFormat)
	}
	if c.WarnStagedFilesThreshold < 0 {
		return fmt.Errorf("warnStagedFilesThreshold must not be negative")
	}
	return nil
}

func resolveRepoConfigPath(path string) (string, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return filepath.Join(path, repoConfigFileName), nil
		}
		return path, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return filepath.Join(path, repoConfigFileName), nil
	}

	return "", err
}

// fileConfig mirrors Config with pointer fields so absent keys can be told
// apart from zero values when layering.
type fileConfig struct {
	Provider   *string `yaml:"provider"`
	Model      *string `yaml:"model"`
	APIKey     *string `yaml:"apiKey"`
	APIURL     *string `yaml:"apiUrl"`
	APIHeaders *string `yaml:"apiHeaders"`
	Locale     *string `yaml:"locale"`

	OneLiner       *bool   `yaml:"oneLiner"`
	CommitTemplate *string `yaml:"commitTemplate"`
	SystemPrompt   *string `yaml:"systemPrompt"`
	UseGitmoji     *bool   `yaml:"useGitmoji"`
	GitmojiFormat  *string `yaml:"gitmojiFormat"`

	ReviewCommit       *bool   `yaml:"reviewCommit"`
	PostCommitPush     *string `yaml:"postCommitPush"`
	SuppressToolOutput *bool   `yaml:"suppressToolOutput"`
	FallbackEnabled    *bool   `yaml:"fallbackEnabled"`

	WarnStagedFilesEnabled   *bool `yaml:"warnStagedFilesEnabled"`
	WarnStagedFilesThreshold *int  `yaml:"warnStagedFilesThreshold"`
}

func (f *fileConfig) applyTo(cfg *Config) {
	applyString(f.Provider, &cfg.Provider)
	applyString(f.Model, &cfg.Model)
	applyString(f.APIKey, &cfg.APIKey)
	applyString(f.APIURL, &cfg.APIURL)
	applyString(f.APIHeaders, &cfg.APIHeaders)
	applyString(f.Locale, &cfg.Locale)
	applyBool(f.OneLiner, &cfg.OneLiner)
	applyString(f.CommitTemplate, &cfg.CommitTemplate)
	applyString(f.SystemPrompt, &cfg.SystemPrompt)
	applyBool(f.UseGitmoji, &cfg.UseGitmoji)
	applyString(f.GitmojiFormat, &cfg.GitmojiFormat)
	applyBool(f.ReviewCommit, &cfg.ReviewCommit)
	applyString(f.PostCommitPush, &cfg.PostCommitPush)
	applyBool(f.SuppressToolOutput, &cfg.SuppressToolOutput)
	applyBool(f.FallbackEnabled, &cfg.FallbackEnabled)
	applyBool(f.WarnStagedFilesEnabled, &cfg.WarnStagedFilesEnabled)
	if f.WarnStagedFilesThreshold != nil {
		cfg.WarnStagedFilesThreshold = *f.WarnStagedFilesThreshold
	}
}

func applyString(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBool(src *bool, dst *bool) {
	if src != nil {
		*dst = *src
	}
}

func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func loadHomeConfig() (*fileConfig, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dir) == "" {
		return nil, fs.ErrNotExist
	}

	path := filepath.Join(dir, homeConfigFolderName, homeConfigFileName)
	return loadFileConfig(path)
}

func loadEnvConfig() (*fileConfig, error) {
	var cfg fileConfig
	var hasValue bool

	stringVars := map[string]**string{
		"PROVIDER":         &cfg.Provider,
		"MODEL":            &cfg.Model,
		"API_KEY":          &cfg.APIKey,
		"API_URL":          &cfg.APIURL,
		"API_HEADERS":      &cfg.APIHeaders,
		"LOCALE":           &cfg.Locale,
		"COMMIT_TEMPLATE":  &cfg.CommitTemplate,
		"SYSTEM_PROMPT":    &cfg.SystemPrompt,
		"GITMOJI_FORMAT":   &cfg.GitmojiFormat,
		"POST_COMMIT_PUSH": &cfg.PostCommitPush,
	}
	for suffix, field := range stringVars {
		if v, ok := lookupString(envPrefix + suffix); ok {
			value := v
			*field = &value
			hasValue = true
		}
	}

	boolVars := map[string]**bool{
		"ONE_LINER":                 &cfg.OneLiner,
		"USE_GITMOJI":               &cfg.UseGitmoji,
		"REVIEW_COMMIT":             &cfg.ReviewCommit,
		"SUPPRESS_TOOL_OUTPUT":      &cfg.SuppressToolOutput,
		"FALLBACK_ENABLED":          &cfg.FallbackEnabled,
		"WARN_STAGED_FILES_ENABLED": &cfg.WarnStagedFilesEnabled,
	}
	for suffix, field := range boolVars {
		if b, ok, err := lookupBool(envPrefix + suffix); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envPrefix+suffix, err)
		} else if ok {
			value := b
			*field = &value
			hasValue = true
		}
	}

	if v, ok := lookupString(envPrefix + "WARN_STAGED_FILES_THRESHOLD"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %sWARN_STAGED_FILES_THRESHOLD: %w", envPrefix, err)
		}
		cfg.WarnStagedFilesThreshold = &n
		hasValue = true
	}

	if !hasValue {
		return nil, nil
	}
	return &cfg, nil
}

func lookupString(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	}
	return "", false
}

func lookupBool(key string) (bool, bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false, false, nil
	}

	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return false, false, nil
	}

	b, err := strconv.ParseBool(trimmed)
	if err != nil {
		return false, false, err
	}
	return b, true, nil
}
