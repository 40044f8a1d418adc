// Package provider turns a staged diff into a commit message by calling an
// LLM provider's HTTP API, with optional fallback across configured presets.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/prompt"
)

// HTTPError reports a non-2xx provider response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API returned HTTP %d: %s", e.StatusCode, e.Body)
}

// TransportError reports a network-level failure before any HTTP status was
// received. Transport failures abort the fallback chain: if the network is
// down, every provider fails the same way.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client calls LLM provider APIs. The zero value uses a default HTTP client
// with a generous timeout.
type Client struct {
	HTTPClient *http.Client
}

const requestTimeout = 120 * time.Second

// Generate asks the configured provider to write a commit message for diff.
func (c *Client) Generate(cfg *config.Config, systemPrompt, diff string) (string, error) {
	url, headersRaw, format, responsePath, err := resolve(cfg)
	if err != nil {
		return "", err
	}

	url = prompt.Interpolate(url, cfg)
	headersRaw = prompt.Interpolate(headersRaw, cfg)

	body, err := json.Marshal(buildRequestBody(format, cfg.Model, systemPrompt, diff))
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	for _, header := range parseHeaders(headersRaw) {
		req.Header.Set(header[0], header[1])
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("parse API response as JSON: %w", err)
	}

	message, err := extractByPath(decoded, responsePath)
	if err != nil {
		return "", fmt.Errorf("extract message at path %q: %w", responsePath, err)
	}
	return message, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: requestTimeout}
}

// resolve picks the endpoint, headers, request format, and response path for
// the configured provider. Unknown providers require an explicit API URL and
// are assumed OpenAI-compatible.
func resolve(cfg *config.Config) (url, headers string, format Format, responsePath string, err error) {
	if def, ok := Lookup(cfg.Provider); ok {
		url = def.APIURL
		if cfg.APIURL != "" {
			url = cfg.APIURL
		}
		headers = def.APIHeaders
		if cfg.APIHeaders != "" {
			headers = cfg.APIHeaders
		}
		return url, headers, def.Format, def.ResponsePath, nil
	}

	if cfg.APIURL == "" {
		return "", "", 0, "", fmt.Errorf("unknown provider %q; set COMMITGEN_API_URL for custom providers", cfg.Provider)
	}
	return cfg.APIURL, cfg.APIHeaders, FormatOpenAI, openAIResponsePath, nil
}
