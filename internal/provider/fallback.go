package provider

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/julianchen24/commitgen/internal/config"
)

// Candidate is one fallback credential set, usually derived from a saved
// preset.
type Candidate struct {
	Name string
	Cfg  *config.Config
}

// GenerateWithFallback calls the primary provider and, when it answers with
// an HTTP error, walks the fallback candidates in order. It returns the
// message and the name of the candidate that produced it (empty for the
// primary). Transport errors abort immediately; all other failures are
// accumulated and reported together when every candidate is exhausted.
func (c *Client) GenerateWithFallback(cfg *config.Config, candidates []Candidate, systemPrompt, diff string) (string, string, error) {
	message, err := c.Generate(cfg, systemPrompt, diff)
	if err == nil {
		return message, "", nil
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "", "", err
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || !cfg.FallbackEnabled || len(candidates) == 0 {
		return "", "", err
	}

	failures := fmt.Errorf("primary %s: %w", cfg.Provider, err)

	for _, candidate := range candidates {
		message, err := c.Generate(candidate.Cfg, systemPrompt, diff)
		if err == nil {
			return message, candidate.Name, nil
		}

		if errors.As(err, &transportErr) {
			return "", "", fmt.Errorf("fallback to %q: %w", candidate.Name, err)
		}
		failures = multierr.Append(failures, fmt.Errorf("%s: %w", candidate.Name, err))
	}

	return "", "", fmt.Errorf("all providers failed: %w", failures)
}
