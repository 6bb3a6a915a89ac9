// Package logging wraps zap with context-aware correlation fields and
// single-line sanitization of error text.
//
// Every service in budgetd receives a *Logger. Log calls pull user and
// reminder correlation fields from the context, so callers only attach them
// once (WithUserID, WithReminderID). Error text destined for logs goes
// through Sanitize, which collapses newlines and redacts credentials, so a
// remote error body can never spray multi-line garbage into the log stream.
package logging
