package provider_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/provider"
)

func serverConfig(url string) *config.Config {
	cfg := config.Default()
	cfg.Provider = "openai"
	cfg.APIURL = url
	cfg.APIKey = "test-key"
	cfg.Model = "gpt-4o-mini"
	return cfg
}

func openAIResponse(message string) string {
	quoted, _ := json.Marshal(message)
	return `{"choices":[{"message":{"content":` + string(quoted) + `}}]}`
}

func TestGenerateOpenAIFormat(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, openAIResponse("feat: add login"))
	}))
	defer server.Close()

	client := &provider.Client{HTTPClient: server.Client()}
	message, err := client.Generate(serverConfig(server.URL), "system prompt", "the diff")
	require.NoError(t, err)
	require.Equal(t, "feat: add login", message)

	require.Equal(t, "Bearer test-key", gotAuth, "API key header comes from interpolation")
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "gpt-4o-mini", gotBody["model"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	require.Equal(t, "system", system["role"])
	require.Equal(t, "system prompt", system["content"])
}

func TestGenerateGeminiFormat(t *testing.T) {
	var gotBody map[string]any
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"fix: bug"}]}}]}`)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Provider = "gemini"
	cfg.Model = "gemini-2.0-flash"
	cfg.APIKey = "gk"
	cfg.APIURL = server.URL + "/models/$COMMITGEN_MODEL:generateContent?key=$COMMITGEN_API_KEY"

	client := &provider.Client{HTTPClient: server.Client()}
	message, err := client.Generate(cfg, "sys", "diff")
	require.NoError(t, err)
	require.Equal(t, "fix: bug", message)

	require.Equal(t, "/models/gemini-2.0-flash:generateContent?key=gk", gotPath)
	require.Contains(t, gotBody, "system_instruction")
	require.Contains(t, gotBody, "contents")
	require.NotContains(t, gotBody, "messages")
}

func TestGenerateAnthropicFormat(t *testing.T) {
	var gotAPIKey, gotVersion string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, `{"content":[{"text":"docs: readme"}]}`)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Provider = "anthropic"
	cfg.Model = "claude-sonnet-4-20250514"
	cfg.APIKey = "ak"
	cfg.APIURL = server.URL

	client := &provider.Client{HTTPClient: server.Client()}
	message, err := client.Generate(cfg, "sys", "diff")
	require.NoError(t, err)
	require.Equal(t, "docs: readme", message)

	require.Equal(t, "ak", gotAPIKey)
	require.Equal(t, "2023-06-01", gotVersion)
	require.Equal(t, "sys", gotBody["system"])
}

func TestGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &provider.Client{HTTPClient: server.Client()}
	_, err := client.Generate(serverConfig(server.URL), "sys", "diff")

	var httpErr *provider.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	require.Contains(t, httpErr.Body, "rate limited")
}

func TestGenerateTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := &provider.Client{}
	_, err := client.Generate(serverConfig(server.URL), "sys", "diff")

	var transportErr *provider.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestGenerateUnknownProviderNeedsURL(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "my-custom-llm"

	client := &provider.Client{}
	_, err := client.Generate(cfg, "sys", "diff")
	require.Error(t, err)
	require.Contains(t, err.Error(), "COMMITGEN_API_URL")
}

func TestGenerateUnknownProviderUsesOpenAIShape(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, openAIResponse("chore: deps"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Provider = "my-custom-llm"
	cfg.APIURL = server.URL
	cfg.Model = "local-model"

	client := &provider.Client{HTTPClient: server.Client()}
	message, err := client.Generate(cfg, "sys", "diff")
	require.NoError(t, err)
	require.Equal(t, "chore: deps", message)
	require.Contains(t, gotBody, "messages")
}

func TestGenerateWithFallback(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer primary.Close()

	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, openAIResponse("feat: rescued"))
	}))
	defer backup.Close()

	cfg := serverConfig(primary.URL)
	candidates := []provider.Candidate{
		{Name: "backup preset", Cfg: serverConfig(backup.URL)},
	}

	client := &provider.Client{}
	message, usedName, err := client.GenerateWithFallback(cfg, candidates, "sys", "diff")
	require.NoError(t, err)
	require.Equal(t, "feat: rescued", message)
	require.Equal(t, "backup preset", usedName)
}

func TestGenerateWithFallbackDisabled(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer primary.Close()

	cfg := serverConfig(primary.URL)
	cfg.FallbackEnabled = false

	client := &provider.Client{}
	_, _, err := client.GenerateWithFallback(cfg, []provider.Candidate{
		{Name: "unused", Cfg: serverConfig(primary.URL)},
	}, "sys", "diff")

	var httpErr *provider.HTTPError
	require.ErrorAs(t, err, &httpErr)
}

func TestGenerateWithFallbackAllFail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	cfg := serverConfig(failing.URL)
	candidates := []provider.Candidate{
		{Name: "first preset", Cfg: serverConfig(failing.URL)},
		{Name: "second preset", Cfg: serverConfig(failing.URL)},
	}

	client := &provider.Client{}
	_, _, err := client.GenerateWithFallback(cfg, candidates, "sys", "diff")
	require.Error(t, err)
	require.Contains(t, err.Error(), "all providers failed")
	require.Contains(t, err.Error(), "first preset")
	require.Contains(t, err.Error(), "second preset")
}

func TestGenerateWithFallbackTransportAborts(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	cfg := serverConfig(dead.URL)

	client := &provider.Client{}
	_, _, err := client.GenerateWithFallback(cfg, []provider.Candidate{
		{Name: "never tried", Cfg: serverConfig(dead.URL)},
	}, "sys", "diff")

	var transportErr *provider.TransportError
	require.True(t, errors.As(err, &transportErr), "transport failures must not walk the chain: %v", err)
}

func TestDefaultModelFor(t *testing.T) {
	require.Equal(t, "llama-3.3-70b-versatile", provider.DefaultModelFor("groq"))
	require.Empty(t, provider.DefaultModelFor("not-a-provider"))
}
