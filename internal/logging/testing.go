package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger wraps Logger with test observation capabilities.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
}

// NewTestLogger creates a logger for testing with full observation.
func NewTestLogger() *TestLogger {
	core, observed := observer.New(zapcore.DebugLevel)
	return &TestLogger{
		Logger: &Logger{
			zap:    zap.New(core),
			config: NewDefaultConfig(),
		},
		observed: observed,
	}
}

// All returns all logged entries.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// FilterMessage returns entries matching message substring.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessage(msg)
}

// Reset clears all logged entries.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
}

// AssertLogged verifies a log at level containing message was logged.
func (t *TestLogger) AssertLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			return
		}
	}
	tb.Errorf("expected log at %v containing %q, logs: %+v", level, msgContains, t.observed.All())
}

// entryHasField reports whether an entry carries a string field key=value.
func entryHasField(entry observer.LoggedEntry, key, value string) bool {
	for _, f := range entry.Context {
		if f.Key == key && f.String == value {
			return true
		}
	}
	return false
}

// AssertLoggedForUser verifies a log containing message carries the user.id
// correlation field, as attached by WithUserID.
func (t *TestLogger) AssertLoggedForUser(tb testing.TB, msgContains, userID string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if strings.Contains(entry.Message, msgContains) && entryHasField(entry, "user.id", userID) {
			return
		}
	}
	tb.Errorf("expected log containing %q with user.id=%q, logs: %+v", msgContains, userID, t.observed.All())
}

// AssertLoggedForReminder verifies a log containing message carries the
// reminder.id correlation field, as attached by WithReminderID.
func (t *TestLogger) AssertLoggedForReminder(tb testing.TB, msgContains, reminderID string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if strings.Contains(entry.Message, msgContains) && entryHasField(entry, "reminder.id", reminderID) {
			return
		}
	}
	tb.Errorf("expected log containing %q with reminder.id=%q, logs: %+v", msgContains, reminderID, t.observed.All())
}

// AssertNotLogged verifies no log at level containing message was logged.
func (t *TestLogger) AssertNotLogged(tb testing.TB, level zapcore.Level, msgContains string) {
	tb.Helper()
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			tb.Errorf("unexpected log at %v containing %q", level, msgContains)
		}
	}
}
