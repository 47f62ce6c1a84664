package intention

import (
	"fmt"
	"strings"
)

// EventKind classifies a change recorded in a history trail.
type EventKind uint8

const (
	EventFileCreated EventKind = iota
	EventMemberCreated
	EventMerged
	EventMoved
	EventRemoved
	EventNullabilityConflict
	EventKeptDistinct
	EventSignatureChanged
	EventConverted
	EventReturnTypeConflict
)

func (k EventKind) String() string {
	switch k {
	case EventFileCreated:
		return "file-created"
	case EventMemberCreated:
		return "member-created"
	case EventMerged:
		return "merged"
	case EventMoved:
		return "moved"
	case EventRemoved:
		return "removed"
	case EventNullabilityConflict:
		return "nullability-conflict"
	case EventKeptDistinct:
		return "kept-distinct"
	case EventSignatureChanged:
		return "signature-changed"
	case EventConverted:
		return "converted"
	case EventReturnTypeConflict:
		return "return-type-conflict"
	default:
		return "unknown"
	}
}

// Event is one structured change. Tag names the pass that produced it; the
// remaining fields are interpreted according to Kind and only turned into
// text by Description.
type Event struct {
	Tag     string
	Kind    EventKind
	Entity  string // method, property, init, type, function, variable, typealias
	Subject string // formatted name of the affected intention
	From    string
	To      string
	Detail  string
}

// Description renders the event as a sentence.
func (e Event) Description() string {
	switch e.Kind {
	case EventFileCreated:
		return fmt.Sprintf("Created from file %s to file %s", e.From, e.To)
	case EventMemberCreated:
		return fmt.Sprintf("Creating definition for newly found %s %s", e.Entity, e.Subject)
	case EventMerged:
		if e.From == "" {
			return fmt.Sprintf("Merged %s %s", e.Entity, e.Subject)
		}
		return fmt.Sprintf("Merged %s %s from %s", e.Entity, e.Subject, e.From)
	case EventMoved:
		return fmt.Sprintf("Moved %s %s from %s to %s", e.Entity, e.Subject, e.From, e.To)
	case EventRemoved:
		if e.Detail != "" {
			return fmt.Sprintf("Removed %s %s: %s", e.Entity, e.Subject, e.Detail)
		}
		return fmt.Sprintf("Removed %s %s", e.Entity, e.Subject)
	case EventNullabilityConflict:
		return fmt.Sprintf("Kept declared type %s of %s over conflicting definition type %s", e.From, e.Subject, e.To)
	case EventKeptDistinct:
		return fmt.Sprintf("Kept %s %s distinct from %s", e.Entity, e.Subject, e.Detail)
	case EventReturnTypeConflict:
		return fmt.Sprintf("Kept definition return type %s of %s over declared %s", e.To, e.Subject, e.From)
	case EventSignatureChanged:
		return fmt.Sprintf("Changed signature of %s from %s to %s", e.Subject, e.From, e.To)
	default:
		return e.Detail
	}
}

// IsCreation reports whether the event only records where an intention came
// from, as opposed to a change made by a pass.
func (e Event) IsCreation() bool { return e.Kind == EventFileCreated }

// History is an append-only change trail.
type History struct {
	events []Event
}

// Record appends e.
func (h *History) Record(e Event) { h.events = append(h.events, e) }

// Events returns the recorded events in order.
func (h *History) Events() []Event { return append([]Event(nil), h.events...) }

// Len returns the number of events.
func (h *History) Len() int { return len(h.events) }

// HasChanges reports whether any pass recorded a change.
func (h *History) HasChanges() bool {
	for _, e := range h.events {
		if !e.IsCreation() {
			return true
		}
	}
	return false
}

// Merge appends every event of other.
func (h *History) Merge(other *History) {
	h.events = append(h.events, other.events...)
}

// Summary renders the trail one event per line as "[Tag] description".
// Creation events without a tag render as "[Creation] ...".
func (h *History) Summary() string {
	lines := make([]string, len(h.events))
	for i, e := range h.events {
		tag := e.Tag
		if tag == "" && e.IsCreation() {
			tag = "Creation"
		}
		lines[i] = "[" + tag + "] " + e.Description()
	}
	return strings.Join(lines, "\n")
}
