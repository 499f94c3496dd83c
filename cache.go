package folio

import (
	"sync"
	"time"
)

type cachedBody struct {
	body    Body
	fetched time.Time
}

// contentCache memoizes resolved post bodies per slug with a TTL, so repeat
// views of a post do not refetch its content file.
type contentCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]cachedBody
}

func newContentCache(ttl time.Duration) *contentCache {
	return &contentCache{ttl: ttl, m: make(map[string]cachedBody)}
}

func (c *contentCache) get(slug string) (Body, bool) {
	if c.ttl <= 0 {
		return Body{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[slug]
	if !ok || time.Since(e.fetched) >= c.ttl {
		return Body{}, false
	}
	return e.body, true
}

func (c *contentCache) put(slug string, body Body) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.m[slug] = cachedBody{body: body, fetched: time.Now()}
	c.mu.Unlock()
}

func (c *contentCache) invalidate() {
	c.mu.Lock()
	c.m = make(map[string]cachedBody)
	c.mu.Unlock()
}
