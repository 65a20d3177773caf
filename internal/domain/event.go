package domain

import "time"

// DomainEvent is something that already happened to an entity.
// The publisher does not interpret OccurredAt or Published; handlers may.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
	Published() bool
	MarkPublished()
}

// Event is embedded by every concrete domain event.
type Event struct {
	OccurredOn  time.Time `json:"occurred_on"`
	IsPublished bool      `json:"-"`
}

// NewEvent stamps the event with the current UTC time.
func NewEvent() Event {
	return Event{OccurredOn: time.Now().UTC()}
}

func (e *Event) OccurredAt() time.Time { return e.OccurredOn }
func (e *Event) Published() bool       { return e.IsPublished }
func (e *Event) MarkPublished()        { e.IsPublished = true }

// Entity collects domain events raised during a mutation until they are dispatched.
type Entity struct {
	events []DomainEvent
}

func (e *Entity) AddDomainEvent(ev DomainEvent) {
	e.events = append(e.events, ev)
}

func (e *Entity) DomainEvents() []DomainEvent {
	return e.events
}

func (e *Entity) ClearDomainEvents() {
	e.events = nil
}
