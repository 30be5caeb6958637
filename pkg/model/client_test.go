package model

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/nkarev/synserve/pkg/prompt"
	"github.com/nkarev/synserve/pkg/suggest"
)

func TestParseSuggestions(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		word string
		max  int
		want []string
	}{
		{
			name: "semicolon separated",
			raw:  "быстрый; шустрый; проворный",
			word: "скорый",
			max:  10,
			want: []string{"быстрый", "шустрый", "проворный"},
		},
		{
			name: "one per line",
			raw:  "быстрый\nшустрый\nпроворный",
			word: "скорый",
			max:  10,
			want: []string{"быстрый", "шустрый", "проворный"},
		},
		{
			name: "queried word dropped case-insensitively",
			raw:  "Скорый; быстрый; скорый",
			word: "скорый",
			max:  10,
			want: []string{"быстрый"},
		},
		{
			name: "duplicates collapse",
			raw:  "быстрый; Быстрый; БЫСТРЫЙ; шустрый",
			word: "скорый",
			max:  10,
			want: []string{"быстрый", "шустрый"},
		},
		{
			name: "punctuation trimmed",
			raw:  "«быстрый»; \"шустрый\".; 'проворный':",
			word: "скорый",
			max:  10,
			want: []string{"быстрый", "шустрый", "проворный"},
		},
		{
			name: "capped at max",
			raw:  "a; b; c; d; e",
			word: "z",
			max:  3,
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty completion",
			raw:  "  \n ; ; \n",
			word: "скорый",
			max:  10,
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSuggestions(tc.raw, tc.word, tc.max)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseSuggestions(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNewSelectsProvider(t *testing.T) {
	prompts := prompt.NewBuilder()

	if _, err := New(Config{Provider: ""}, prompts); err != nil {
		t.Errorf("empty provider should default to ollama: %v", err)
	}
	if _, err := New(Config{Provider: "ollama"}, prompts); err != nil {
		t.Errorf("ollama: %v", err)
	}
	if _, err := New(Config{Provider: "openrouter", APIKey: "k"}, prompts); err != nil {
		t.Errorf("openrouter with key: %v", err)
	}
	if _, err := New(Config{Provider: "openrouter"}, prompts); err == nil {
		t.Error("openrouter without an API key should fail")
	}
	if _, err := New(Config{Provider: "martian"}, prompts); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestOllamaSuggest(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]string{"response": "быстрый; шустрый"})
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "test-model", 10, prompt.NewBuilder())
	cc := suggest.CursorContext{Word: "скорый", Left: "очень", Right: "поезд"}

	got, err := client.Suggest(context.Background(), cc)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"быстрый", "шустрый"}) {
		t.Errorf("suggestions = %v", got)
	}
	if gotPrompt == "" {
		t.Fatal("no prompt sent")
	}
}

func TestOllamaBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "", 10, prompt.NewBuilder())
	_, err := client.Suggest(context.Background(), suggest.CursorContext{Word: "w"})
	if !errors.Is(err, ErrModel) {
		t.Errorf("err = %v, want ErrModel", err)
	}
}

func TestOllamaTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect
		// and cancel the request context; otherwise srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "", 10, prompt.NewBuilder())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Suggest(ctx, suggest.CursorContext{Word: "w"})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestOllamaConnectionRefused(t *testing.T) {
	// Nothing listens here.
	client := NewOllama("http://127.0.0.1:1", "", 10, prompt.NewBuilder())
	_, err := client.Suggest(context.Background(), suggest.CursorContext{Word: "w"})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestOllamaIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewOllama(srv.URL, "", 10, prompt.NewBuilder())
	if err := client.IsAvailable(context.Background()); err != nil {
		t.Errorf("IsAvailable: %v", err)
	}
}

func TestOpenRouterSuggest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "быстрый\nшустрый"}},
			},
		})
	}))
	defer srv.Close()

	client := NewOpenRouter(srv.URL, "test-key", "", 10, prompt.NewBuilder())
	got, err := client.Suggest(context.Background(), suggest.CursorContext{Word: "скорый"})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"быстрый", "шустрый"}) {
		t.Errorf("suggestions = %v", got)
	}
}

func TestOpenRouterEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewOpenRouter(srv.URL, "k", "", 10, prompt.NewBuilder())
	_, err := client.Suggest(context.Background(), suggest.CursorContext{Word: "w"})
	if !errors.Is(err, ErrModel) {
		t.Errorf("err = %v, want ErrModel", err)
	}
}
