package store

import (
	"context"
	"sync"
	"time"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

// DefaultCacheTTL is how long cached records stay fresh.
const DefaultCacheTTL = 5 * time.Minute

// Cached wraps a Store with a single-slot cache per record kind. A slot holds
// one user's records; a request for a different user evicts it. Scheduling
// reads records through this cache, so scheduled notifications can lag the
// backend by up to the TTL.
type Cached struct {
	inner Store
	ttl   time.Duration
	now   func() time.Time

	mu           sync.Mutex
	transactions cacheSlot[[]finance.Transaction]
	budgets      cacheSlot[[]finance.Budget]
	reminders    cacheSlot[[]finance.BillReminder]
}

type cacheSlot[T any] struct {
	userID    string
	fetchedAt time.Time
	value     T
}

// NewCached wraps inner with a cache. A non-positive ttl uses DefaultCacheTTL.
func NewCached(inner Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
	}
}

// fresh reports whether the slot holds this user's records within the TTL.
func fresh[T any](s cacheSlot[T], userID string, now time.Time, ttl time.Duration) bool {
	return s.userID == userID && !s.fetchedAt.IsZero() && now.Sub(s.fetchedAt) < ttl
}

func (c *Cached) Transactions(ctx context.Context, userID string) ([]finance.Transaction, error) {
	c.mu.Lock()
	if fresh(c.transactions, userID, c.now(), c.ttl) {
		value := c.transactions.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := c.inner.Transactions(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.transactions = cacheSlot[[]finance.Transaction]{userID: userID, fetchedAt: c.now(), value: value}
	c.mu.Unlock()
	return value, nil
}

func (c *Cached) Budgets(ctx context.Context, userID string) ([]finance.Budget, error) {
	c.mu.Lock()
	if fresh(c.budgets, userID, c.now(), c.ttl) {
		value := c.budgets.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := c.inner.Budgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.budgets = cacheSlot[[]finance.Budget]{userID: userID, fetchedAt: c.now(), value: value}
	c.mu.Unlock()
	return value, nil
}

func (c *Cached) BillReminders(ctx context.Context, userID string) ([]finance.BillReminder, error) {
	c.mu.Lock()
	if fresh(c.reminders, userID, c.now(), c.ttl) {
		value := c.reminders.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := c.inner.BillReminders(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.reminders = cacheSlot[[]finance.BillReminder]{userID: userID, fetchedAt: c.now(), value: value}
	c.mu.Unlock()
	return value, nil
}

// Invalidate drops every cached slot.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = cacheSlot[[]finance.Transaction]{}
	c.budgets = cacheSlot[[]finance.Budget]{}
	c.reminders = cacheSlot[[]finance.BillReminder]{}
}

var _ Store = (*Cached)(nil)
