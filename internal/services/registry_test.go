package services

import (
	"testing"

	"github.com/sampurna-d/budget-buddy/internal/notify"
	"github.com/sampurna-d/budget-buddy/internal/store"
)

func TestRegistryAccessors(t *testing.T) {
	// Create registry with nil services - just testing interface
	reg := NewRegistry(Options{})

	if reg.Insight() != nil {
		t.Error("expected nil insight service")
	}
	if reg.Scheduler() != nil {
		t.Error("expected nil scheduler")
	}
	if reg.Store() != nil {
		t.Error("expected nil store")
	}
}

func TestRegistryWithServices(t *testing.T) {
	scheduler := &notify.Scheduler{}
	records := store.NewMemory()

	reg := NewRegistry(Options{
		Scheduler: scheduler,
		Store:     records,
	})

	if reg.Scheduler() != scheduler {
		t.Error("scheduler mismatch")
	}
	if reg.Store() != store.Store(records) {
		t.Error("store mismatch")
	}
}
