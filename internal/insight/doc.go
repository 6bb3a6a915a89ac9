// Package insight is the categorization and insight engine: it assigns
// budget categories to transactions, summarizes spending patterns, and
// drafts notification copy by delegating to a remote completion endpoint.
//
// Every operation degrades to a deterministic local fallback when the
// remote call fails, so callers never see an error — only possibly
// lower-quality output. The engine has no dependency on the notification
// scheduler; the dependency runs strictly the other way.
package insight
