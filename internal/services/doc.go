// Package services provides centralized service registry for budgetd.
//
// Registry pattern for accessing the core services (insight, scheduler,
// store). Use NewRegistry() to create a registry with service instances,
// then accessor methods to retrieve individual services.
package services
