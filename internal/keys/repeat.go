package keys

import "time"

// RepeatDetector infers key releases from terminal auto-repeat.
//
// Terminals without release reporting send the key again at the repeat rate
// while it is held. The first sighting is a press; once no repeat arrives for
// the gap, the key is considered released at its last sighting.
type RepeatDetector struct {
	gap  time.Duration
	held bool
	last time.Time
}

// NewRepeatDetector returns a detector using the given release gap.
func NewRepeatDetector(gap time.Duration) *RepeatDetector {
	return &RepeatDetector{gap: gap}
}

// Observe records a sighting of the key and reports a press on the first one.
func (d *RepeatDetector) Observe(at time.Time) (Event, bool) {
	d.last = at
	if d.held {
		return Event{}, false
	}
	d.held = true
	return Event{Kind: Press, At: at}, true
}

// Poll reports a release once the key has been silent for the gap.
func (d *RepeatDetector) Poll(now time.Time) (Event, bool) {
	if !d.held || now.Sub(d.last) < d.gap {
		return Event{}, false
	}
	d.held = false
	return Event{Kind: Release, At: d.last}, true
}

// Held reports whether the key is considered down.
func (d *RepeatDetector) Held() bool {
	return d.held
}
