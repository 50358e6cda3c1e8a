package events

// Event is implemented by every domain event carried on the bus.
type Event interface {
	Type() string
}

// EventTypes maps an event type to a constructor, used by transports that
// must decode payloads back into concrete events.
var EventTypes = map[string]func() Event{
	EventTypeAccountCreated.String(): func() Event { return &AccountCreated{} },
	EventTypeAccountUpdated.String(): func() Event { return &AccountUpdated{} },
	EventTypeAccountDeleted.String(): func() Event { return &AccountDeleted{} },
}
