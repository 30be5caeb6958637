package suggest

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/text/cases"
)

var keyFolder = cases.Fold()

// foldKey normalizes the (word, left, right) tuple. Both cache levels key on
// the folded form; the queried word keeps its original casing in results.
func foldKey(cc CursorContext) (word, left, right string) {
	return keyFolder.String(cc.Word), keyFolder.String(cc.Left), keyFolder.String(cc.Right)
}

func cacheKey(cc CursorContext) string {
	word, left, right := foldKey(cc)
	return word + "\x00" + left + "\x00" + right
}

// Cache memoizes (word, context) -> suggestion lists. The in-memory level is
// a capacity-bounded LRU with TTL expiry; an optional Store underneath
// survives restarts. Entries are immutable once inserted. Safe for use from
// the controller and from response-completion goroutines.
type Cache struct {
	mem   *ttlcache.Cache[string, []string]
	store Store
}

// NewCache creates a Cache holding at most capacity entries for at most ttl.
// A nil store disables the persistent level.
func NewCache(capacity int, ttl time.Duration, store Store) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	mem := ttlcache.New[string, []string](
		ttlcache.WithTTL[string, []string](ttl),
		ttlcache.WithCapacity[string, []string](uint64(capacity)),
	)
	go mem.Start()
	return &Cache{mem: mem, store: store}
}

// Get returns the memoized suggestions for cc, falling through to the
// persistent store on a memory miss. Store hits are promoted back into the
// LRU so repeated lookups stay off disk.
func (c *Cache) Get(cc CursorContext) ([]string, bool) {
	word, left, right := foldKey(cc)
	key := word + "\x00" + left + "\x00" + right
	if item := c.mem.Get(key); item != nil {
		return item.Value(), true
	}
	if c.store == nil {
		return nil, false
	}
	suggestions, ok := c.store.Load(word, left, right)
	if !ok {
		return nil, false
	}
	c.mem.Set(key, suggestions, ttlcache.DefaultTTL)
	return suggestions, true
}

// Put inserts the suggestions for cc, writing through to the store when one
// is configured.
func (c *Cache) Put(cc CursorContext, suggestions []string) {
	c.mem.Set(cacheKey(cc), suggestions, ttlcache.DefaultTTL)
	if c.store == nil {
		return
	}
	word, left, right := foldKey(cc)
	if err := c.store.Save(word, left, right, suggestions); err != nil {
		log.Debugf("suggestion store write failed: %v", err)
	}
}

// Len reports the number of live in-memory entries.
func (c *Cache) Len() int {
	return c.mem.Len()
}

// Close stops the expiration loop.
func (c *Cache) Close() {
	c.mem.Stop()
}
