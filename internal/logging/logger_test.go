package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, logger.Sync())
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"
	_, err := NewLogger(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestConfigValidate_EmptyFieldValue(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Fields = map[string]string{"env": ""}
	assert.Error(t, cfg.Validate())
}

func TestContextFields(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-1")
	ctx = WithReminderID(ctx, "rem-42")

	fields := ContextFields(ctx)
	require.Len(t, fields, 2)
	assert.Equal(t, "user.id", fields[0].Key)
	assert.Equal(t, "user-1", fields[0].String)
	assert.Equal(t, "reminder.id", fields[1].Key)
	assert.Equal(t, "rem-42", fields[1].String)
}

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestLogger_ContextCorrelation(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithUserID(context.Background(), "user-9")

	tl.Info(ctx, "synced transactions", zap.Int("count", 3))

	entries := tl.FilterMessage("synced transactions").All()
	require.Len(t, entries, 1)
	tl.AssertLoggedForUser(t, "synced transactions", "user-9")
}

func TestLogger_ReminderCorrelation(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithReminderID(context.Background(), "rem-7")

	tl.Warn(ctx, "failed to cancel notification")

	tl.AssertLoggedForReminder(t, "failed to cancel", "rem-7")
}

func TestFromContext_Fallback(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// Must not panic.
	logger.Warn(context.Background(), "no logger installed")
}

func TestFromContext_RoundTrip(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	FromContext(ctx).Info(ctx, "hello")
	tl.AssertLogged(t, zapcore.InfoLevel, "hello")
}
