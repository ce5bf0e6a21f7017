package notes

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached memoizes a Lookup per distinct set of chapters.
type Cached struct {
	next  Lookup
	cache *gocache.Cache
}

// NewCached wraps next with a TTL cache.
func NewCached(next Lookup, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// NotesFor implements Lookup.
func (c *Cached) NotesFor(chapters []string) string {
	key := strings.Join(normalizeChapters(chapters), ",")
	if v, found := c.cache.Get(key); found {
		return v.(string)
	}
	text := c.next.NotesFor(chapters)
	c.cache.SetDefault(key, text)
	return text
}
