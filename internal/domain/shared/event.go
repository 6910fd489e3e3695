package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredOn() time.Time
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	AggregateVersion() int
}

// BaseDomainEvent provides common fields for all domain events.
// The timestamp is serialized under both occurred_on and occurred_at:
// downstream consumers exist that expect either name.
type BaseDomainEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredTS time.Time `json:"occurred_on"`
	AtTS       time.Time `json:"occurred_at"`
	AggID      uuid.UUID `json:"aggregate_id"`
	AggType    string    `json:"aggregate_type"`
	AggVersion int       `json:"aggregate_version"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredOn returns when the event occurred
func (e *BaseDomainEvent) OccurredOn() time.Time {
	return e.OccurredTS
}

// OccurredAt returns when the event occurred (alias of OccurredOn)
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.AtTS
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// AggregateVersion returns the aggregate version at emission time
func (e *BaseDomainEvent) AggregateVersion() int {
	return e.AggVersion
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID, aggVersion int) BaseDomainEvent {
	now := time.Now()
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredTS: now,
		AtTS:       now,
		AggID:      aggID,
		AggType:    aggType,
		AggVersion: aggVersion,
	}
}
