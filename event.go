package flume

import (
	"time"
)

// Event represents an immutable log event that flows through sinks.
//
// Events are constructed by the logger only after the level filter passes,
// so no per-event state is built for filtered-out calls. Once constructed
// an Event is never mutated; sinks that process events concurrently receive
// their own copy via Clone.
type Event struct {
	Time    time.Time
	Level   Level
	Prefix  string
	Message string
	Fields  Fields
}

// NewEvent creates a new Event with the current timestamp.
//
// This is primarily used internally by Logger.Log and the convenience
// functions. Most users should use those higher-level functions instead of
// creating events directly.
//
// The fields parameter can be nil if no structured data is needed.
func NewEvent(level Level, msg string, fields Fields) Event {
	return Event{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  fields,
	}
}

// Clone creates a deep copy of the event for safe concurrent processing.
//
// This method satisfies the pipz.Cloner interface, allowing events to be
// processed by adapter chains concurrently. Each sink receives its own
// copy, preventing any interference between sinks.
//
// The clone includes a copy of the Fields slice to ensure complete isolation.
func (e Event) Clone() Event {
	return Event{
		Time:    e.Time,    // time.Time is a value type
		Level:   e.Level,   // Level (string) is immutable
		Prefix:  e.Prefix,  // strings are immutable
		Message: e.Message, // strings are immutable
		Fields:  e.Fields.Clone(),
	}
}
