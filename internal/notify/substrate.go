package notify

import (
	"context"
	"time"
)

// Priority is the intent-level notification priority.
type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
	PriorityMax     Priority = "max"
)

// SubstratePriority is the priority understood by the substrate.
type SubstratePriority int

const (
	SubstrateDefault SubstratePriority = iota
	SubstrateHigh
	SubstrateMax
)

// MapPriority maps an intent priority to its substrate priority. Anything
// other than Max or High, including the empty value, maps to Default.
func MapPriority(p Priority) SubstratePriority {
	switch p {
	case PriorityMax:
		return SubstrateMax
	case PriorityHigh:
		return SubstrateHigh
	default:
		return SubstrateDefault
	}
}

// Intent is an abstract request to show a notification. Constructed
// ephemerally per alert; the substrate owns persistence of pending triggers.
type Intent struct {
	Title     string
	Body      string
	Data      map[string]string
	Priority  Priority
	PlaySound bool
}

// Content is the concrete payload handed to the substrate.
type Content struct {
	Title    string
	Body     string
	Data     map[string]string
	Sound    bool
	Priority SubstratePriority
}

// DisplayPolicy controls how incoming notifications are presented while the
// application is in the foreground.
type DisplayPolicy struct {
	ShowAlert bool
	PlaySound bool
	SetBadge  bool
}

// Channel describes a platform notification channel. Platforms without the
// concept treat EnsureChannel as a no-op.
type Channel struct {
	ID         string
	Importance SubstratePriority
	Vibration  []int
	Color      string
}

// Scheduled is one pending notification as reported by the substrate.
type Scheduled struct {
	ID      string
	Content Content
}

// Substrate is the platform's local notification scheduling service. The
// scheduler only submits to and cancels from it; delivery is out of scope.
type Substrate interface {
	SetDisplayPolicy(policy DisplayPolicy) error
	EnsureChannel(ctx context.Context, channel Channel) error
	RequestPermission(ctx context.Context) (bool, error)

	// ScheduleAt schedules a one-shot notification after the given delay and
	// returns the substrate-assigned identifier.
	ScheduleAt(ctx context.Context, content Content, delay time.Duration) (string, error)

	ListScheduled(ctx context.Context) ([]Scheduled, error)
	Cancel(ctx context.Context, id string) error
}

// Clock supplies the current time. Injected so time-dependent scheduling
// math is reproducible in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
