// Package notify turns high-level scheduling intents — "warn about this
// budget", "remind about this bill" — into concretely timed notifications
// submitted to a notification substrate.
//
// The scheduler owns the lifecycle state (display policy, channel,
// permission) and the time math: permitted hour window, next-occurrence
// resolution, never-in-the-past triggers. It calls the insight engine for
// message content; the insight engine never calls back.
package notify
