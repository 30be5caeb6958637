// Package cli provides a simple interactive input handler for debugging the
// suggestion engine in real-time without a host editor.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nkarev/synserve/internal/logger"
	"github.com/nkarev/synserve/pkg/editor"
	"github.com/nkarev/synserve/pkg/morph"
	"github.com/nkarev/synserve/pkg/suggest"
)

var log = logger.New("cli")

var (
	wordStyle   = lipgloss.NewStyle().Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	noticeStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
)

// InputHandler drives the engine from stdin lines. Suggestion lists arrive
// asynchronously once the debounce window closes, so output is printed from
// engine goroutines as it becomes ready.
type InputHandler struct {
	buffer     *editor.Buffer
	controller *suggest.Controller
	presenter  *suggest.Presenter
}

// NewInputHandler creates a new CLI input handler around the buffer.
func NewInputHandler(buffer *editor.Buffer) *InputHandler {
	return &InputHandler{buffer: buffer}
}

// Attach hands over the engine collaborators, mirroring server.Attach.
func (h *InputHandler) Attach(controller *suggest.Controller, presenter *suggest.Presenter) {
	h.controller = controller
	h.presenter = presenter
}

// Start begins the CLI input loop.
func (h *InputHandler) Start() error {
	log.Print("SynServe CLI")
	log.Print("enter text to load it, a number to move the cursor there,")
	log.Print("':pick <word>' to apply a suggestion, ':lint', ':show' (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	if offset, err := strconv.Atoi(line); err == nil {
		h.buffer.SetCursor(offset)
		h.controller.OnCursorMoved(h.buffer.Cursor())
		return
	}

	switch {
	case strings.HasPrefix(line, ":pick "):
		chosen := strings.TrimSpace(strings.TrimPrefix(line, ":pick "))
		if err := h.presenter.Choose(chosen); err != nil {
			log.Errorf("Could not apply %q: %v", chosen, err)
			return
		}
		fmt.Println(h.buffer.FullText())
	case line == ":lint":
		issues := morph.Check(h.buffer.FullText())
		if len(issues) == 0 {
			log.Print("no issues")
			return
		}
		for _, issue := range issues {
			fmt.Printf("  %d+%d %s\n", issue.Start, issue.Length, issue.Message)
		}
	case line == ":show":
		fmt.Println(h.buffer.FullText())
	case strings.HasPrefix(line, ":"):
		log.Errorf("Unknown command: %s", line)
	default:
		h.buffer.SetText(line)
		log.Debugf("Loaded %d runes", len([]rune(line)))
	}
}

// ShowSuggestions implements suggest.Sink.
func (h *InputHandler) ShowSuggestions(word string, suggestions []string) {
	fmt.Println(wordStyle.Render(word))
	if len(suggestions) == 0 {
		fmt.Println(itemStyle.Render("  (no suggestions)"))
		return
	}
	for i, s := range suggestions {
		fmt.Println(itemStyle.Render(fmt.Sprintf("  %d. %s", i+1, s)))
	}
}

// ShowNotice implements suggest.Sink.
func (h *InputHandler) ShowNotice(msg string) {
	fmt.Println(noticeStyle.Render(msg))
}
