package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeAccountCreated EventType = "Account.Created"
	EventTypeAccountUpdated EventType = "Account.Updated"
	EventTypeAccountDeleted EventType = "Account.Deleted"
)

func (t EventType) String() string {
	return string(t)
}
