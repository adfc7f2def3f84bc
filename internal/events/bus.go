// Package events re-exports the platform event bus so internal modules
// import a single events package alongside the domain event types.
package events

import (
	platformevents "jobboard_backend/platform/events"
	"jobboard_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus logging to log.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log.Logger)
}
