// Package store reads the user's financial records from the hosted backend.
//
// Client talks to the backend's REST interface. Cached wraps any Store with a
// short-lived single-slot cache so one scheduling pass does not re-fetch the
// same records for every notification batch. Memory is an in-process Store
// for tests and offline runs.
package store
