package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type ctlState uint8

const (
	stateIdle ctlState = iota
	stateDebouncing
	stateAwaiting
)

const (
	// DefaultDebounce is the quiet period after a cursor move before a
	// request is dispatched.
	DefaultDebounce = 200 * time.Millisecond
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 8 * time.Second
)

// Controller owns the single in-flight suggestion request. Cursor moves
// arrive on the host's event loop; the debounce timer and model calls run on
// their own goroutines, so every state transition is serialized by mu.
//
// A move that changes the cursor word supersedes whatever is pending or in
// flight. Superseded calls are cancelled cooperatively: the call may still
// complete, but its response fails the active-id check and is dropped.
type Controller struct {
	extractor *Extractor
	cache     *Cache
	client    Client
	deliver   Deliverer
	surface   Surface

	debounce time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	state    ctlState
	pending  CursorContext
	active   *SuggestionRequest
	seq      int64
	timer    *time.Timer
	timerGen uint64
	cancel   context.CancelFunc
	closed   bool
}

// NewController wires the engine together. The controller holds exactly the
// collaborators it needs; nothing here touches globals.
func NewController(extractor *Extractor, cache *Cache, client Client, deliver Deliverer, surface Surface, debounce, timeout time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		extractor: extractor,
		cache:     cache,
		client:    client,
		deliver:   deliver,
		surface:   surface,
		debounce:  debounce,
		timeout:   timeout,
	}
}

// OnCursorMoved is the engine entry point, invoked by the host on every
// cursor-position change. Offsets not on a word are ignored. A move onto the
// word already pending or in flight is a no-op; anything else supersedes the
// current request and restarts the debounce window.
func (c *Controller) OnCursorMoved(offset int) {
	cc, ok := c.extractor.Extract(c.surface.FullText(), offset)
	if !ok {
		log.Debugf("no word at offset %d", offset)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch c.state {
	case stateDebouncing:
		if sameContext(cc, c.pending) {
			return
		}
	case stateAwaiting:
		if c.active != nil && sameContext(cc, c.active.Context) {
			return
		}
	}

	c.cancelInFlightLocked()
	c.pending = cc
	c.state = stateDebouncing
	c.timerGen++
	gen := c.timerGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.debounceExpired(gen)
	})
}

// Close stops the debounce timer and cancels any in-flight call. Responses
// arriving afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.cancelInFlightLocked()
	c.state = stateIdle
}

// debounceExpired runs on the timer goroutine once the quiet period elapses.
// The generation guard drops firings of timers that were superseded between
// Stop and the callback actually running.
func (c *Controller) debounceExpired(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen || c.state != stateDebouncing {
		c.mu.Unlock()
		return
	}
	cc := c.pending
	c.mu.Unlock()

	// Cache lookup outside the lock: the persistent level may touch disk.
	suggestions, hit := c.cache.Get(cc)

	c.mu.Lock()
	if c.closed || gen != c.timerGen || c.state != stateDebouncing {
		c.mu.Unlock()
		return
	}

	if hit {
		c.state = stateIdle
		c.mu.Unlock()
		log.Debugf("cache hit for %q", cc.Word)
		c.deliver.Present(SuggestionResult{Word: cc.Word, Suggestions: suggestions}, cc)
		return
	}

	c.seq++
	req := &SuggestionRequest{Context: cc, ID: c.seq, IssuedAt: time.Now()}
	c.active = req
	c.state = stateAwaiting
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel
	c.mu.Unlock()

	log.Debugf("dispatching request %d for %q", req.ID, cc.Word)
	go c.call(ctx, cancel, req)
}

func (c *Controller) call(ctx context.Context, cancel context.CancelFunc, req *SuggestionRequest) {
	defer cancel()
	suggestions, err := c.client.Suggest(ctx, req.Context)
	c.complete(req, suggestions, err)
}

// complete runs on the model-call goroutine. The active-id check is the
// staleness guard: a slow response for a position the cursor has left must
// never overwrite newer suggestions.
func (c *Controller) complete(req *SuggestionRequest, suggestions []string, err error) {
	c.mu.Lock()
	if c.closed || c.active == nil || c.active.ID != req.ID {
		c.mu.Unlock()
		log.Debugf("discarding stale response %d for %q", req.ID, req.Context.Word)
		return
	}
	c.active = nil
	c.cancel = nil
	c.state = stateIdle
	c.mu.Unlock()

	if err != nil {
		log.Debugf("request %d for %q failed: %v", req.ID, req.Context.Word, err)
		c.deliver.PresentFailure(req.Context.Word, err)
		return
	}

	c.cache.Put(req.Context, suggestions)
	c.deliver.Present(SuggestionResult{ID: req.ID, Word: req.Context.Word, Suggestions: suggestions}, req.Context)
}

// cancelInFlightLocked marks the active request cancelled. Callers hold mu.
func (c *Controller) cancelInFlightLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.active = nil
}

func sameContext(a, b CursorContext) bool {
	return a.Word == b.Word && a.Left == b.Left && a.Right == b.Right
}
