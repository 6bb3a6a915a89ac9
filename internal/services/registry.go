package services

import (
	"github.com/sampurna-d/budget-buddy/internal/insight"
	"github.com/sampurna-d/budget-buddy/internal/notify"
	"github.com/sampurna-d/budget-buddy/internal/store"
)

// Registry provides access to all budgetd services.
// Use accessor methods to retrieve individual services.
type Registry interface {
	Insight() insight.Service
	Scheduler() *notify.Scheduler
	Store() store.Store
}

// Options configures the registry with service instances.
type Options struct {
	Insight   insight.Service
	Scheduler *notify.Scheduler
	Store     store.Store
}

// registry is the concrete implementation of Registry.
type registry struct {
	insight   insight.Service
	scheduler *notify.Scheduler
	store     store.Store
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		insight:   opts.Insight,
		scheduler: opts.Scheduler,
		store:     opts.Store,
	}
}

func (r *registry) Insight() insight.Service     { return r.insight }
func (r *registry) Scheduler() *notify.Scheduler { return r.scheduler }
func (r *registry) Store() store.Store           { return r.store }
