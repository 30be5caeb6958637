// Package model implements the suggestion clients talking to language model
// backends over HTTP. Every client builds its prompt through pkg/prompt and
// returns a ranked synonym list parsed from the raw completion.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nkarev/synserve/pkg/prompt"
	"github.com/nkarev/synserve/pkg/suggest"
	"golang.org/x/text/cases"
)

var (
	// ErrNetwork covers transport failures reaching the backend.
	ErrNetwork = errors.New("network error")
	// ErrModel covers backend-side failures (bad status, unparsable reply).
	ErrModel = errors.New("model error")
	// ErrTimeout is returned when the call exceeds its context deadline.
	ErrTimeout = errors.New("request timed out")
)

// DefaultMaxSuggestions caps the parsed synonym list, matching the 5-10
// variants the instruction asks for.
const DefaultMaxSuggestions = 10

// Config selects and parameterizes a backend.
type Config struct {
	Provider       string
	BaseURL        string
	APIKey         string
	Model          string
	MaxSuggestions int
}

// New returns the suggestion client for cfg.Provider.
func New(cfg Config, prompts *prompt.Builder) (suggest.Client, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllama(cfg.BaseURL, cfg.Model, cfg.MaxSuggestions, prompts), nil
	case "openrouter":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openrouter requires an API key")
		}
		return NewOpenRouter(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.MaxSuggestions, prompts), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

var wordFolder = cases.Fold()

// parseSuggestions splits a raw completion into a ranked synonym list. The
// instruction asks for semicolon-separated words; newlines count as
// separators too since smaller models tend to answer one per line. The
// queried word itself and duplicates are dropped, the list capped at max.
func parseSuggestions(raw, word string, max int) []string {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}
	folded := wordFolder.String(word)
	seen := make(map[string]bool)

	var out []string
	for _, part := range strings.Split(strings.ReplaceAll(raw, "\n", ";"), ";") {
		s := strings.Trim(strings.TrimSpace(part), ".,:\"'«»")
		if s == "" {
			continue
		}
		key := wordFolder.String(s)
		if key == folded || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}

// classify maps a transport error onto the package taxonomy.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
