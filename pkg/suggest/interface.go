// Package suggest is the core engine: it extracts the word under the cursor
// with its surrounding context, debounces cursor movement, issues a single
// in-flight model request at a time and discards responses that arrive for a
// position the cursor has already left.
package suggest

import (
	"context"
	"time"
)

// CursorContext describes the word under the cursor together with bounded
// windows of text on either side. Pos is the rune offset of the first rune of
// Word in the host text. The windows never include Word itself.
type CursorContext struct {
	Word  string
	Left  string
	Right string
	Pos   int
}

// SuggestionRequest is one issued model call. IDs increase monotonically per
// controller; only the most recently issued request is active.
type SuggestionRequest struct {
	Context  CursorContext
	ID       int64
	IssuedAt time.Time
}

// SuggestionResult carries the ranked suggestions for a completed request.
// Results whose ID no longer matches the active request are discarded on
// arrival and never reach the presenter.
type SuggestionResult struct {
	ID          int64
	Word        string
	Suggestions []string
}

// Client performs the model call. Implementations live in pkg/model; the call
// may block and must honor ctx cancellation.
type Client interface {
	Suggest(ctx context.Context, cc CursorContext) ([]string, error)
}

// Surface is the host text-editing surface the engine reads from and writes
// back into. ReplaceSpan operates on rune offsets.
type Surface interface {
	FullText() string
	ReplaceSpan(offset, length int, text string) error
}

// Sink receives deliveries from the presenter: a ranked suggestion list for
// the current cursor word, or a transient user-visible notice.
type Sink interface {
	ShowSuggestions(word string, suggestions []string)
	ShowNotice(msg string)
}

// Deliverer receives completed, non-stale outcomes from the controller.
// *Presenter implements it; tests substitute their own.
type Deliverer interface {
	Present(res SuggestionResult, cc CursorContext)
	PresentFailure(word string, err error)
}

// Store is an optional second cache level checked on a memory miss and
// written through on put. Implemented by pkg/store on SQLite.
type Store interface {
	Load(word, left, right string) ([]string, bool)
	Save(word, left, right string, suggestions []string) error
}
