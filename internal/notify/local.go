package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DeliveryFunc receives a notification when its trigger fires.
type DeliveryFunc func(content Content)

// LocalSubstrate is an in-process Substrate backed by timers. It stands in
// for a platform notification service when budgetd runs as a plain daemon,
// and gives demos and integration tests a real scheduling surface.
type LocalSubstrate struct {
	deliver DeliveryFunc

	mu       sync.Mutex
	policy   DisplayPolicy
	channels map[string]Channel
	pending  map[string]*localPending
	granted  bool
}

type localPending struct {
	content Content
	timer   *time.Timer
}

// NewLocalSubstrate creates a local substrate. deliver may be nil, in which
// case fired notifications are dropped.
func NewLocalSubstrate(deliver DeliveryFunc) *LocalSubstrate {
	return &LocalSubstrate{
		deliver:  deliver,
		channels: make(map[string]Channel),
		pending:  make(map[string]*localPending),
		granted:  true,
	}
}

// SetPermission controls what RequestPermission reports. Defaults to granted.
func (l *LocalSubstrate) SetPermission(granted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.granted = granted
}

func (l *LocalSubstrate) SetDisplayPolicy(policy DisplayPolicy) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy = policy
	return nil
}

func (l *LocalSubstrate) EnsureChannel(_ context.Context, channel Channel) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channels[channel.ID] = channel
	return nil
}

func (l *LocalSubstrate) RequestPermission(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.granted, nil
}

func (l *LocalSubstrate) ScheduleAt(_ context.Context, content Content, delay time.Duration) (string, error) {
	id := uuid.New().String()

	l.mu.Lock()
	defer l.mu.Unlock()
	p := &localPending{content: content}
	p.timer = time.AfterFunc(delay, func() { l.fire(id) })
	l.pending[id] = p
	return id, nil
}

// fire delivers and removes a pending notification.
func (l *LocalSubstrate) fire(id string) {
	l.mu.Lock()
	p, ok := l.pending[id]
	if ok {
		delete(l.pending, id)
	}
	deliver := l.deliver
	l.mu.Unlock()

	if ok && deliver != nil {
		deliver(p.content)
	}
}

func (l *LocalSubstrate) ListScheduled(_ context.Context) ([]Scheduled, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Scheduled, 0, len(l.pending))
	for id, p := range l.pending {
		out = append(out, Scheduled{ID: id, Content: p.content})
	}
	return out, nil
}

// Cancel stops a pending notification. Unknown ids are a no-op.
func (l *LocalSubstrate) Cancel(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.pending[id]; ok {
		p.timer.Stop()
		delete(l.pending, id)
	}
	return nil
}

// Close stops every pending timer.
func (l *LocalSubstrate) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.pending {
		p.timer.Stop()
		delete(l.pending, id)
	}
}

var _ Substrate = (*LocalSubstrate)(nil)
