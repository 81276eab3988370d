package resource

// Handle is an opaque reference to a native pointer in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventWrapped EventType = iota
	EventReleased
)

var eventNames = [...]string{
	EventWrapped:  "wrapped",
	EventReleased: "released",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event represents a handle lifecycle event.
type Event struct {
	Ptr    uint64
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}
