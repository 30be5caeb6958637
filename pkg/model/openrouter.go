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

// DefaultOpenRouterModel is used when the config names none.
const DefaultOpenRouterModel = "google/gemini-2.0-flash-exp:free"

// OpenRouter asks a hosted model for synonyms via the chat completions API.
type OpenRouter struct {
	baseURL string
	apiKey  string
	model   string
	max     int
	client  *http.Client
	prompts *prompt.Builder
}

// NewOpenRouter builds an OpenRouter client.
func NewOpenRouter(baseURL, apiKey, model string, max int, prompts *prompt.Builder) *OpenRouter {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return &OpenRouter{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		max:     max,
		client:  &http.Client{},
		prompts: prompts,
	}
}

// Suggest implements suggest.Client.
func (o *OpenRouter) Suggest(ctx context.Context, cc suggest.CursorContext) ([]string, error) {
	body, err := json.Marshal(map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "user", "content": o.prompts.Synonyms(cc.Word, cc.Left, cc.Right)},
		},
		"max_tokens": 256,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrModel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrModel, resp.StatusCode)
	}

	var routerResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&routerResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrModel, err)
	}
	if len(routerResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrModel)
	}

	return parseSuggestions(routerResp.Choices[0].Message.Content, cc.Word, o.max), nil
}
