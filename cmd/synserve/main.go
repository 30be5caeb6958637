/*
Package main implements the synonym suggestion server and debug CLI.

SynServe offers context-aware synonym replacements for the word under the
text cursor while a translated passage is being edited. The engine extracts
the cursor word with bounded context, debounces cursor movement, asks a
language model for in-context synonyms and applies the user's pick back into
the text. Responses that arrive for a position the cursor has already left
are discarded.

# Usage

Start the msgpack IPC server (stdin/stdout, for editor integration):

	synserve

Run the interactive debug CLI instead:

	synserve -c

Enable debug logging and point at a custom config:

	synserve -d -config /path/to/config.toml

# Configuration

Runtime configuration lives in a TOML file that is created with defaults on
first run:

	[engine]
	debounce_ms = 200
	request_timeout_ms = 8000
	max_suggestions = 10

	[context]
	window = 120
	connectors = "-'’"

	[cache]
	capacity = 256
	ttl_minutes = 30

	[store]
	enabled = false

	[model]
	provider = "ollama"

Glossaries are JSON files under <configdir>/glossaries; entries from
glossaries marked auto_to_prompt are appended to model prompts when their
source term occurs near the cursor.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Commands carry an
ID and are answered with the same ID; suggestion lists and notices are pushed
as separate event frames because they become ready only after the debounce
window (and possibly a model round trip). See pkg/server for the frames.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nkarev/synserve/internal/cli"
	"github.com/nkarev/synserve/pkg/config"
	"github.com/nkarev/synserve/pkg/editor"
	"github.com/nkarev/synserve/pkg/model"
	"github.com/nkarev/synserve/pkg/prompt"
	"github.com/nkarev/synserve/pkg/server"
	"github.com/nkarev/synserve/pkg/store"
	"github.com/nkarev/synserve/pkg/suggest"
)

const (
	Version = "0.3.0"
	AppName = "synserve"
	gh      = "https://github.com/nkarev/synserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the engine together and hands control to the server or CLI
// loop; it implements no engine logic itself.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	provider := flag.String("provider", "", "Model provider override (ollama, openrouter)")
	modelName := flag.String("model", "", "Model name override")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	// stdout carries msgpack frames in server mode
	log.SetOutput(os.Stderr)

	cfg, cfgPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *provider != "" {
		cfg.Model.Provider = *provider
	}
	if *modelName != "" {
		cfg.Model.Model = *modelName
	}

	configDir := "."
	if cfgPath != "" {
		configDir = filepath.Dir(cfgPath)
	} else if dir, derr := config.GetConfigDir(); derr == nil {
		configDir = dir
	}

	var suggestionStore suggest.Store
	if cfg.Store.Enabled {
		dbPath := cfg.Store.Path
		if dbPath == "" {
			dbPath = filepath.Join(configDir, "suggestions.db")
		}
		st, err := store.Open(dbPath, time.Duration(cfg.Store.TTLHours)*time.Hour)
		if err != nil {
			log.Warnf("Persistent store unavailable: %v", err)
		} else {
			defer st.Close()
			suggestionStore = st
			log.Debugf("Using suggestion store at %s", dbPath)
		}
	}

	cache := suggest.NewCache(cfg.Cache.Capacity, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, suggestionStore)
	defer cache.Close()

	prompts := prompt.NewBuilder(loadGlossaries(filepath.Join(configDir, "glossaries"))...)

	client, err := model.New(model.Config{
		Provider:       cfg.Model.Provider,
		BaseURL:        cfg.Model.BaseURL,
		APIKey:         cfg.Model.APIKey,
		Model:          cfg.Model.Model,
		MaxSuggestions: cfg.Engine.MaxSuggestions,
	}, prompts)
	if err != nil {
		log.Fatalf("Failed to init model client: %v", err)
	}

	extractor := suggest.NewExtractor(cfg.Context.Window, cfg.Context.Connectors)
	buffer := editor.NewBuffer("")
	debounce := time.Duration(cfg.Engine.DebounceMs) * time.Millisecond
	timeout := time.Duration(cfg.Engine.RequestTimeoutMs) * time.Millisecond

	if *cliMode {
		handler := cli.NewInputHandler(buffer)
		presenter := suggest.NewPresenter(buffer, handler)
		controller := suggest.NewController(extractor, cache, client, presenter, buffer, debounce, timeout)
		defer controller.Close()
		handler.Attach(controller, presenter)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(buffer)
	presenter := suggest.NewPresenter(buffer, srv)
	controller := suggest.NewController(extractor, cache, client, presenter, buffer, debounce, timeout)
	defer controller.Close()
	srv.Attach(controller, presenter)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadGlossaries reads every glossary JSON in dir; a missing dir is fine.
func loadGlossaries(dir string) []*prompt.Glossary {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil
	}
	var glossaries []*prompt.Glossary
	for _, path := range paths {
		g, err := prompt.LoadGlossary(path)
		if err != nil {
			log.Warnf("Skipping glossary %s: %v", path, err)
			continue
		}
		glossaries = append(glossaries, g)
		log.Debugf("Loaded glossary %q (%d entries)", g.Name, len(g.Entries))
	}
	return glossaries
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ SynServe ] Context-aware synonyms for translated text!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}
