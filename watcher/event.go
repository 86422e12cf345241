package watcher

import "fmt"

type eventType int

const (
	// Filesystem object was created
	EvCreate = eventType(iota)
	// Data in filesystem object was updated
	EvWrite
)

// FSEvent - cached filesystem event, only the latest event per path is kept
type FSEvent struct {
	Type eventType
}

func (et eventType) String() string {
	switch et {
	case EvCreate:
		return "Create"
	case EvWrite:
		return "Write"
	default:
		panic(fmt.Sprintf("Unsupported filesystem event type %d", et))
	}
}
