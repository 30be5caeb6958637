package suggest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	// ErrNothingPresented means Choose was called with no suggestion list showing.
	ErrNothingPresented = errors.New("no suggestions presented")
	// ErrStaleApply means the text changed under the captured context; the
	// surface is left untouched.
	ErrStaleApply = errors.New("text changed since suggestions were captured")
)

// Presenter exposes the latest non-stale suggestion list to the host and
// applies the user's pick back into the surface. Present and Choose may run
// on different goroutines (response completion vs host event loop).
type Presenter struct {
	surface Surface
	sink    Sink

	mu      sync.Mutex
	current *SuggestionResult
	ctx     CursorContext
}

// NewPresenter builds a Presenter pushing deliveries into sink.
func NewPresenter(surface Surface, sink Sink) *Presenter {
	return &Presenter{surface: surface, sink: sink}
}

// Present replaces the current suggestion list. The controller only calls
// this for the active request, so ordering follows cursor recency.
func (p *Presenter) Present(res SuggestionResult, cc CursorContext) {
	p.mu.Lock()
	p.current = &res
	p.ctx = cc
	p.mu.Unlock()
	p.sink.ShowSuggestions(res.Word, res.Suggestions)
}

// PresentFailure surfaces a transient notice and clears any stale list. The
// failed request is not retried until the next fresh cursor move.
func (p *Presenter) PresentFailure(word string, err error) {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.sink.ShowNotice(fmt.Sprintf("could not fetch suggestions for %q: %v", word, err))
}

// Choose replaces exactly the span the presented context was captured for.
// If the text at that offset no longer matches the original word, nothing is
// written and a "could not apply" notice is shown.
func (p *Presenter) Choose(chosen string) error {
	if chosen == "" {
		return ErrNothingPresented
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ErrNothingPresented
	}

	cc := p.ctx
	runes := []rune(p.surface.FullText())
	wordLen := len([]rune(cc.Word))
	if cc.Pos < 0 || cc.Pos+wordLen > len(runes) || string(runes[cc.Pos:cc.Pos+wordLen]) != cc.Word {
		log.Debugf("stale apply for %q at %d", cc.Word, cc.Pos)
		p.sink.ShowNotice(fmt.Sprintf("could not apply %q: text changed", chosen))
		return ErrStaleApply
	}

	if err := p.surface.ReplaceSpan(cc.Pos, wordLen, chosen); err != nil {
		return err
	}
	p.current = nil
	return nil
}

// Current returns the word and suggestions currently on display, if any.
func (p *Presenter) Current() (string, []string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", nil, false
	}
	return p.current.Word, p.current.Suggestions, true
}
