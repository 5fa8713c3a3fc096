package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
)

// Kind distinguishes display refreshes from phase notifications.
type Kind int

const (
	// KindDisplay asks the presentation layer to re-render State.
	KindDisplay Kind = iota
	// KindNotification announces a phase change that should be surfaced to the user.
	KindNotification
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k == KindNotification {
		return "notification"
	}

	return "display"
}

// Event is published to subscribers after every state change.
type Event struct {
	// ID uniquely identifies the event.
	ID uuid.UUID
	// Kind tells display refreshes from notifications.
	Kind Kind
	// Notification is set for KindNotification events.
	Notification pomodoro.Notification
	// State is the timer state right after the change.
	State pomodoro.State
	// At is when the event was produced.
	At time.Time
}

// Listener receives engine events. It runs while the engine is locked and
// must not call back into the engine.
type Listener func(Event)

func newEvent(kind Kind, note pomodoro.Notification, state pomodoro.State) Event {
	return Event{
		ID:           uuid.New(),
		Kind:         kind,
		Notification: note,
		State:        state,
		At:           time.Now(),
	}
}
