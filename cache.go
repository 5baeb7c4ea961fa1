package bootship

import (
	"strconv"
	"sync"
	"time"

	"github.com/eringen/bootship/theme"
)

// Snapshot is the site-wide state every page render reads: options,
// widgets, menus and whether more than one author has published.
type Snapshot struct {
	Options     map[string]string
	Sidebars    map[string][]theme.Widget
	Menus       map[string][]theme.MenuItem
	MultiAuthor bool
}

// Option returns an option value or def when unset.
func (s Snapshot) Option(key, def string) string {
	if v, ok := s.Options[key]; ok {
		return v
	}
	return def
}

// Flag reads a "1"/"0" option.
func (s Snapshot) Flag(key string, def bool) bool {
	v, ok := s.Options[key]
	if !ok {
		return def
	}
	return v == "1" || v == "true"
}

// Int reads a numeric option, falling back to def when unset or invalid.
func (s Snapshot) Int(key string, def int) int {
	n, err := strconv.Atoi(s.Options[key])
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// SiteCache is an in-memory cache of the site snapshot with TTL.
type SiteCache struct {
	mu      sync.RWMutex
	snap    *Snapshot
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewSiteCache creates a SiteCache backed by the given Store.
func NewSiteCache(s *Store, ttl time.Duration) *SiteCache {
	return &SiteCache{store: s, ttl: ttl}
}

func (c *SiteCache) valid() bool {
	return c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *SiteCache) load() error {
	if c.valid() {
		return nil
	}
	opts, err := c.store.Options()
	if err != nil {
		return err
	}
	widgets, err := c.store.Widgets()
	if err != nil {
		return err
	}
	menus, err := c.store.Menus()
	if err != nil {
		return err
	}
	authors, err := c.store.CountAuthors()
	if err != nil {
		return err
	}
	c.snap = &Snapshot{Options: opts, Sidebars: widgets, Menus: menus, MultiAuthor: authors > 1}
	c.fetched = time.Now()
	return nil
}

// Snapshot returns the cached snapshot after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *SiteCache) Snapshot() (Snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		snap := *c.snap
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return Snapshot{}, err
	}
	return *c.snap, nil
}
