// Package model defines shared data structures.
package model

import "time"

// Release modes for detecting key-up.
const (
	ReleaseKitty  = "kitty"
	ReleaseRepeat = "repeat"
)

// Config defines session settings.
type Config struct {
	Trials      int
	MinDelay    time.Duration
	MaxDelay    time.Duration
	MinVisible  time.Duration
	MaxVisible  time.Duration
	FinishPause time.Duration
	Key         string
	ReleaseMode string
	ReleaseGap  time.Duration
	Seed        int64
}

// Result captures a completed session.
type Result struct {
	StartedAt time.Time
	EndedAt   time.Time
	Appear    []time.Duration
	Disappear []time.Duration
	Misses    int
}

// Trials returns the number of completed trials.
func (r Result) Trials() int {
	return len(r.Appear)
}
