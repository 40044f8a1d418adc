package config

import "strconv"

// Field describes one editable setting for the interactive editor: a stable
// key, a display label, the current value rendered as text, and, for
// enumerated settings, the admissible choices.
type Field struct {
	Key     string
	Label   string
	Value   string
	Options []string
	Secret  bool
}

// Fields lists every editable setting in display order.
func (c *Config) Fields() []Field {
	return []Field{
		{Key: "provider", Label: "Provider", Value: c.Provider,
			Options: []string{"gemini", "openai", "anthropic", "groq", "grok", "deepseek", "openrouter", "mistral", "together", "fireworks", "perplexity"}},
		{Key: "model", Label: "Model", Value: c.Model},
		{Key: "apiKey", Label: "API key", Value: c.APIKey, Secret: true},
		{Key: "apiUrl", Label: "API URL", Value: c.APIURL},
		{Key: "apiHeaders", Label: "API headers", Value: c.APIHeaders},
		{Key: "locale", Label: "Locale", Value: c.Locale},
		{Key: "oneLiner", Label: "One-liner commits", Value: formatBool(c.OneLiner), Options: boolOptions},
		{Key: "commitTemplate", Label: "Commit template", Value: c.CommitTemplate},
		{Key: "systemPrompt", Label: "System prompt", Value: c.SystemPrompt},
		{Key: "useGitmoji", Label: "Use Gitmoji", Value: formatBool(c.UseGitmoji), Options: boolOptions},
		{Key: "gitmojiFormat", Label: "Gitmoji format", Value: c.GitmojiFormat, Options: []string{"unicode", "shortcode"}},
		{Key: "reviewCommit", Label: "Review before commit", Value: formatBool(c.ReviewCommit), Options: boolOptions},
		{Key: "postCommitPush", Label: "Post-commit push", Value: c.PostCommitPush, Options: []string{"ask", "always", "never"}},
		{Key: "suppressToolOutput", Label: "Suppress git output", Value: formatBool(c.SuppressToolOutput), Options: boolOptions},
		{Key: "fallbackEnabled", Label: "Provider fallback", Value: formatBool(c.FallbackEnabled), Options: boolOptions},
		{Key: "warnStagedFilesEnabled", Label: "Warn on many staged files", Value: formatBool(c.WarnStagedFilesEnabled), Options: boolOptions},
		{Key: "warnStagedFilesThreshold", Label: "Staged files threshold", Value: strconv.Itoa(c.WarnStagedFilesThreshold)},
	}
}

var boolOptions = []string{"true", "false"}

// SetField assigns value to the setting named by key. Values for boolean and
// integer settings are parsed; an unknown key or unparsable value is
// reported.
func (c *Config) SetField(key, value string) error {
	switch key {
	case "provider":
		c.Provider = value
	case "model":
		c.Model = value
	case "apiKey":
		c.APIKey = value
	case "apiUrl":
		c.APIURL = value
	case "apiHeaders":
		c.APIHeaders = value
	case "locale":
		c.Locale = value
	case "oneLiner":
		return parseBoolInto(value, &c.OneLiner)
	case "commitTemplate":
		c.CommitTemplate = value
	case "systemPrompt":
		c.SystemPrompt = value
	case "useGitmoji":
		return parseBoolInto(value, &c.UseGitmoji)
	case "gitmojiFormat":
		c.GitmojiFormat = value
	case "reviewCommit":
		return parseBoolInto(value, &c.ReviewCommit)
	case "postCommitPush":
		c.PostCommitPush = value
	case "suppressToolOutput":
		return parseBoolInto(value, &c.SuppressToolOutput)
	case "fallbackEnabled":
		return parseBoolInto(value, &c.FallbackEnabled)
	case "warnStagedFilesEnabled":
		return parseBoolInto(value, &c.WarnStagedFilesEnabled)
	case "warnStagedFilesThreshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		c.WarnStagedFilesThreshold = n
	default:
		return &UnknownFieldError{Key: key}
	}
	return nil
}

// UnknownFieldError reports a SetField call with a key no setting uses.
type UnknownFieldError struct {
	Key string
}

func (e *UnknownFieldError) Error() string {
	return "unknown configuration field: " + e.Key
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func parseBoolInto(value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}
