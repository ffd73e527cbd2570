package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchDispatched EventType = "SearchDispatched"
	EventSearchSettled    EventType = "SearchSettled"
	EventSearchDiscarded  EventType = "SearchDiscarded"
	EventSearchCleared    EventType = "SearchCleared"
	EventHitOpened        EventType = "HitOpened"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchDispatchedEvent is emitted when a debounced query is sent to the backend
type SearchDispatchedEvent struct {
	Request SearchRequest
}

func (e SearchDispatchedEvent) Type() EventType { return EventSearchDispatched }

// SearchSettledEvent is emitted when the latest search completes, successfully or not
type SearchSettledEvent struct {
	Request  SearchRequest
	Hits     int
	Duration time.Duration
	Err      error
}

func (e SearchSettledEvent) Type() EventType { return EventSearchSettled }

// SearchDiscardedEvent is emitted when a completion arrives for a superseded request
type SearchDiscardedEvent struct {
	Request SearchRequest
	Latest  uint64
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// SearchClearedEvent is emitted when an empty query resets the results
type SearchClearedEvent struct{}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// HitOpenedEvent is emitted when a result card is opened in the detail pager
type HitOpenedEvent struct {
	ID  string
	Err error
}

func (e HitOpenedEvent) Type() EventType { return EventHitOpened }
