package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sampurna-d/budget-buddy/internal/finance"
	"github.com/sampurna-d/budget-buddy/internal/insight"
)

// mockSubstrate records every call for assertions.
type mockSubstrate struct {
	mu sync.Mutex

	granted       bool
	permissionErr error
	policyErr     error
	channelErr    error
	scheduleErr   error
	listErr       error

	policy          *DisplayPolicy
	channels        []Channel
	permissionCalls int

	scheduled []scheduledCall
	cancelled []string
	nextID    int
}

type scheduledCall struct {
	id      string
	content Content
	delay   time.Duration
}

func newMockSubstrate() *mockSubstrate {
	return &mockSubstrate{granted: true}
}

func (m *mockSubstrate) SetDisplayPolicy(policy DisplayPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.policyErr != nil {
		return m.policyErr
	}
	m.policy = &policy
	return nil
}

func (m *mockSubstrate) EnsureChannel(_ context.Context, channel Channel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.channelErr != nil {
		return m.channelErr
	}
	m.channels = append(m.channels, channel)
	return nil
}

func (m *mockSubstrate) RequestPermission(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permissionCalls++
	return m.granted, m.permissionErr
}

func (m *mockSubstrate) ScheduleAt(_ context.Context, content Content, delay time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scheduleErr != nil {
		return "", m.scheduleErr
	}
	m.nextID++
	id := fmt.Sprintf("n-%d", m.nextID)
	m.scheduled = append(m.scheduled, scheduledCall{id: id, content: content, delay: delay})
	return id, nil
}

func (m *mockSubstrate) ListScheduled(_ context.Context) ([]Scheduled, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Scheduled, 0, len(m.scheduled))
	for _, call := range m.scheduled {
		out = append(out, Scheduled{ID: call.id, Content: call.content})
	}
	return out, nil
}

func (m *mockSubstrate) Cancel(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, id)
	for i, call := range m.scheduled {
		if call.id == id {
			m.scheduled = append(m.scheduled[:i], m.scheduled[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockSubstrate) scheduledCalls() []scheduledCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scheduledCall(nil), m.scheduled...)
}

func (m *mockSubstrate) cancelledIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.cancelled...)
}

// stubEngine is a canned insight.Service.
type stubEngine struct {
	pattern finance.SpendingPattern
	copy    string
}

func (s *stubEngine) CategorizeTransaction(context.Context, string, decimal.Decimal) finance.Category {
	return finance.CategoryOther
}

func (s *stubEngine) AnalyzeSpendingPatterns(context.Context, []finance.Transaction, []finance.Budget) finance.SpendingPattern {
	return s.pattern
}

func (s *stubEngine) GenerateNotificationContent(_ context.Context, _ finance.SpendingPattern, _ []finance.Budget, kind insight.Kind) string {
	if s.copy != "" {
		return s.copy
	}
	return "message for " + string(kind)
}

// fakeClock is a fixed clock.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }
