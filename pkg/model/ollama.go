package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nkarev/synserve/pkg/prompt"
	"github.com/nkarev/synserve/pkg/suggest"
)

// DefaultOllamaModel is used when the config names none.
const DefaultOllamaModel = "llama3.2"

// Ollama asks a local Ollama instance for synonyms via /api/generate.
type Ollama struct {
	baseURL string
	model   string
	max     int
	client  *http.Client
	prompts *prompt.Builder
}

// NewOllama builds an Ollama client. baseURL defaults to the local daemon.
// Call timeouts come from the request context, not the http.Client.
func NewOllama(baseURL, model string, max int, prompts *prompt.Builder) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		max:     max,
		client:  &http.Client{},
		prompts: prompts,
	}
}

// Suggest implements suggest.Client.
func (o *Ollama) Suggest(ctx context.Context, cc suggest.CursorContext) ([]string, error) {
	body, err := json.Marshal(map[string]any{
		"model":  o.model,
		"prompt": o.prompts.Synonyms(cc.Word, cc.Left, cc.Right),
		"stream": false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrModel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrModel, resp.StatusCode)
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrModel, err)
	}

	return parseSuggestions(ollamaResp.Response, cc.Word, o.max), nil
}

// IsAvailable checks the daemon responds on /api/tags.
func (o *Ollama) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrModel, resp.StatusCode)
	}
	return nil
}
