// Package denylist keeps the current set of disallowed substrings and
// refreshes it from an upstream source at most once per interval.
//
// The installed list is an immutable Snapshot behind an atomic pointer.
// Readers never take a lock; a single mutex serialises fetch-and-swap.
package denylist

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type memoEntry struct {
	entry string
	ok    bool
}

// Snapshot is one installed version of the denylist. It is never mutated
// after construction apart from its match memo, which is private to it.
type Snapshot struct {
	entries   []string
	fetchedAt time.Time
	memo      *lru.Cache[string, memoEntry]
}

func newSnapshot(entries []string, fetchedAt time.Time, memoSize int) *Snapshot {
	cleaned := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry != "" {
			cleaned = append(cleaned, entry)
		}
	}
	sort.Strings(cleaned)
	unique := cleaned[:0]
	for _, entry := range cleaned {
		if len(unique) > 0 && entry == unique[len(unique)-1] {
			continue
		}
		unique = append(unique, entry)
	}

	snap := &Snapshot{entries: unique, fetchedAt: fetchedAt}
	if memoSize > 0 {
		if memo, err := lru.New[string, memoEntry](memoSize); err == nil {
			snap.memo = memo
		}
	}
	return snap
}

func (s *Snapshot) Len() int { return len(s.entries) }

func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Entries returns a copy of the installed entries in sorted order.
func (s *Snapshot) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Match returns the first entry (in sorted order) that is a substring of token.
func (s *Snapshot) Match(token string) (string, bool) {
	if len(s.entries) == 0 || token == "" {
		return "", false
	}
	if s.memo != nil {
		if cached, ok := s.memo.Get(token); ok {
			return cached.entry, cached.ok
		}
	}
	result := memoEntry{}
	for _, entry := range s.entries {
		if strings.Contains(token, entry) {
			result = memoEntry{entry: entry, ok: true}
			break
		}
	}
	if s.memo != nil {
		s.memo.Add(token, result)
	}
	return result.entry, result.ok
}

type refreshStatus struct {
	attemptedAt time.Time
	succeededAt time.Time
	err         error
}

type Stats struct {
	Entries     int
	LastAttempt time.Time
	LastSuccess time.Time
	LastError   error
	Refreshes   uint64
	Failures    uint64
}

type Options struct {
	Interval       time.Duration
	MatchCacheSize int
}

type Cache struct {
	mu        sync.Mutex
	fetcher   Fetcher
	interval  time.Duration
	memoSize  int
	clock     Clock
	logger    *zap.Logger
	notify    func(context.Context, error)
	current   atomic.Pointer[Snapshot]
	status    atomic.Pointer[refreshStatus]
	refreshes atomic.Uint64
	failures  atomic.Uint64
}

func NewCache(fetcher Fetcher, opts Options, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		fetcher:  fetcher,
		interval: opts.Interval,
		memoSize: opts.MatchCacheSize,
		clock:    realClock{},
		logger:   logger,
	}
	c.current.Store(newSnapshot(nil, time.Time{}, 0))
	return c
}

func (c *Cache) WithClock(clock Clock) {
	c.clock = clock
}

// SetFailureNotifier registers a callback invoked after every failed refresh.
func (c *Cache) SetFailureNotifier(notify func(context.Context, error)) {
	c.notify = notify
}

// Snapshot returns the currently installed denylist.
func (c *Cache) Snapshot() *Snapshot {
	return c.current.Load()
}

func (c *Cache) Contains(token string) bool {
	_, ok := c.Match(token)
	return ok
}

func (c *Cache) Match(token string) (string, bool) {
	return c.current.Load().Match(token)
}

// EnsureFresh refreshes the denylist if the interval has elapsed since the
// last attempt. Failures are logged and reported, never returned.
func (c *Cache) EnsureFresh(ctx context.Context) {
	if !c.due(c.clock.Now()) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	// a concurrent caller may have refreshed while we waited on the lock
	if !c.due(now) {
		return
	}
	_ = c.refreshLocked(ctx, now)
}

// Refresh fetches the denylist regardless of the interval and returns the
// fetch error, if any. The previous snapshot is kept on failure.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx, c.clock.Now())
}

func (c *Cache) Stats() Stats {
	stats := Stats{
		Entries:   c.current.Load().Len(),
		Refreshes: c.refreshes.Load(),
		Failures:  c.failures.Load(),
	}
	if st := c.status.Load(); st != nil {
		stats.LastAttempt = st.attemptedAt
		stats.LastSuccess = st.succeededAt
		stats.LastError = st.err
	}
	return stats
}

func (c *Cache) due(now time.Time) bool {
	st := c.status.Load()
	if st == nil {
		return true
	}
	return now.Sub(st.attemptedAt) >= c.interval
}

func (c *Cache) refreshLocked(ctx context.Context, now time.Time) error {
	started := time.Now()
	entries, err := c.fetcher.Fetch(ctx)
	refreshDuration.Observe(time.Since(started).Seconds())

	next := &refreshStatus{attemptedAt: now}
	if prev := c.status.Load(); prev != nil {
		next.succeededAt = prev.succeededAt
	}

	if err != nil {
		next.err = err
		c.status.Store(next)
		c.failures.Add(1)
		refreshCount.WithLabelValues("failure").Inc()
		c.logger.Warn("denylist refresh failed, keeping previous list",
			zap.Error(err),
			zap.Int("entries", c.current.Load().Len()),
		)
		if c.notify != nil {
			c.notify(ctx, err)
		}
		return err
	}

	snap := newSnapshot(entries, now, c.memoSize)
	c.current.Store(snap)
	next.succeededAt = now
	c.status.Store(next)
	c.refreshes.Add(1)

	refreshCount.WithLabelValues("success").Inc()
	entriesGauge.Set(float64(snap.Len()))
	lastSuccessGauge.Set(float64(now.Unix()))
	c.logger.Info("denylist refreshed", zap.Int("entries", snap.Len()))
	return nil
}
