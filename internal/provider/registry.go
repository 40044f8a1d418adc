package provider

// Format selects how the request body is shaped for a provider's API.
type Format int

const (
	// FormatOpenAI is the chat-completions shape most providers accept.
	FormatOpenAI Format = iota
	// FormatGemini is Google's generateContent shape.
	FormatGemini
	// FormatAnthropic is the messages shape with a top-level system field.
	FormatAnthropic
)

// Definition describes a built-in provider. URL and header templates may
// contain $COMMITGEN_MODEL and $COMMITGEN_API_KEY placeholders that are
// interpolated at call time.
type Definition struct {
	APIURL       string
	APIHeaders   string
	DefaultModel string
	Format       Format
	ResponsePath string
}

const openAIResponsePath = "choices.0.message.content"

var builtins = map[string]Definition{
	"gemini": {
		APIURL:       "https://generativelanguage.googleapis.com/v1beta/models/$COMMITGEN_MODEL:generateContent?key=$COMMITGEN_API_KEY",
		DefaultModel: "gemini-2.0-flash",
		Format:       FormatGemini,
		ResponsePath: "candidates.0.content.parts.0.text",
	},
	"openai": {
		APIURL:       "https://api.openai.com/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "gpt-4o-mini",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"anthropic": {
		APIURL:       "https://api.anthropic.com/v1/messages",
		APIHeaders:   "x-api-key: $COMMITGEN_API_KEY, anthropic-version: 2023-06-01",
		DefaultModel: "claude-sonnet-4-20250514",
		Format:       FormatAnthropic,
		ResponsePath: "content.0.text",
	},
	"groq": {
		APIURL:       "https://api.groq.com/openai/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "llama-3.3-70b-versatile",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"grok": {
		APIURL:       "https://api.x.ai/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "grok-3",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"deepseek": {
		APIURL:       "https://api.deepseek.com/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "deepseek-chat",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"openrouter": {
		APIURL:       "https://openrouter.ai/api/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "openai/gpt-4o-mini",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"mistral": {
		APIURL:       "https://api.mistral.ai/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "mistral-small-latest",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"together": {
		APIURL:       "https://api.together.xyz/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "meta-llama/Llama-3.3-70B-Instruct-Turbo",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"fireworks": {
		APIURL:       "https://api.fireworks.ai/inference/v1/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "accounts/fireworks/models/llama-v3p3-70b-instruct",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
	"perplexity": {
		APIURL:       "https://api.perplexity.ai/chat/completions",
		APIHeaders:   "Authorization: Bearer $COMMITGEN_API_KEY",
		DefaultModel: "sonar",
		Format:       FormatOpenAI,
		ResponsePath: openAIResponsePath,
	},
}

// Lookup returns the built-in definition for name.
func Lookup(name string) (Definition, bool) {
	def, ok := builtins[name]
	return def, ok
}

// DefaultModelFor returns the default model of a built-in provider, or an
// empty string for unknown providers.
func DefaultModelFor(name string) string {
	if def, ok := builtins[name]; ok {
		return def.DefaultModel
	}
	return ""
}
