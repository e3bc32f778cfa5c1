package trial

import "time"

// EventKind identifies a session event.
type EventKind int

// Session events, in the order they occur within a trial.
const (
	EventStimulusShown EventKind = iota
	EventAppearRecorded
	EventStimulusHidden
	EventTrialMissed
	EventDisappearRecorded
	EventSessionDone
)

// Event describes a transition or a recorded sample.
type Event struct {
	Kind  EventKind
	Trial int
	// Latency is set for recorded samples.
	Latency time.Duration
	// Averages are set on EventSessionDone.
	AppearAverage    time.Duration
	DisappearAverage time.Duration
}
