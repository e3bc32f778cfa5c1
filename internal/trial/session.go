// Package trial implements the reaction-time trial loop.
//
// A Session never reads the clock. Callers pass the current time into every
// operation, which keeps the loop deterministic under test.
package trial

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/reactime/internal/model"
	"github.com/verte-zerg/reactime/internal/stats"
)

// Phase is the current state of the trial loop.
type Phase int

// Session phases.
const (
	PhaseIdle Phase = iota
	PhaseWaiting
	PhaseVisible
	PhaseRelease
	PhaseDone
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWaiting:
		return "waiting"
	case PhaseVisible:
		return "visible"
	case PhaseRelease:
		return "release"
	case PhaseDone:
		return "done"
	case PhaseAborted:
		return "aborted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Durations supplies the randomized timings of a session.
type Durations interface {
	// NextDelay returns the wait before the next stimulus.
	NextDelay() time.Duration
	// NextVisible returns how long the next stimulus stays on screen.
	NextVisible() time.Duration
}

// ErrAlreadyStarted is returned by Start on a session that left the idle phase.
var ErrAlreadyStarted = errors.New("session already started")

// Session holds the state of one reaction-time run.
type Session struct {
	trials int
	src    Durations

	phase      Phase
	completed  int
	misses     int
	holding    bool
	nextAt     time.Time
	onset      time.Time
	offset     time.Time
	visibleFor time.Duration
	startedAt  time.Time
	endedAt    time.Time

	appear    []time.Duration
	disappear []time.Duration
}

// NewSession returns an idle session running the given number of trials.
func NewSession(trials int, src Durations) (*Session, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("trials must be > 0, got %d", trials)
	}
	if src == nil {
		return nil, errors.New("duration source is nil")
	}
	return &Session{
		trials:    trials,
		src:       src,
		appear:    make([]time.Duration, 0, trials),
		disappear: make([]time.Duration, 0, trials),
	}, nil
}

// Start schedules the first stimulus.
func (s *Session) Start(now time.Time) error {
	if s.phase != PhaseIdle {
		return ErrAlreadyStarted
	}
	s.startedAt = now
	s.schedule(now)
	return nil
}

// Tick advances time-driven transitions.
func (s *Session) Tick(now time.Time) []Event {
	switch s.phase {
	case PhaseWaiting:
		if now.Before(s.nextAt) {
			return nil
		}
		s.phase = PhaseVisible
		s.onset = now
		s.visibleFor = s.src.NextVisible()
		return []Event{{Kind: EventStimulusShown, Trial: s.Trial()}}
	case PhaseVisible:
		if now.Sub(s.onset) < s.visibleFor {
			return nil
		}
		s.offset = now
		if !s.holding {
			s.misses++
			trialNo := s.Trial()
			s.schedule(now)
			return []Event{
				{Kind: EventStimulusHidden, Trial: trialNo},
				{Kind: EventTrialMissed, Trial: trialNo},
			}
		}
		s.phase = PhaseRelease
		return []Event{{Kind: EventStimulusHidden, Trial: s.Trial()}}
	default:
		return nil
	}
}

// KeyDown records an appearance sample when the stimulus is visible.
// A key-down stamped before the onset is ignored even if it is delivered late.
func (s *Session) KeyDown(now time.Time) []Event {
	if s.phase != PhaseVisible || s.holding || now.Before(s.onset) {
		return nil
	}
	latency := now.Sub(s.onset)
	s.appear = append(s.appear, latency)
	s.holding = true
	return []Event{{Kind: EventAppearRecorded, Trial: s.Trial(), Latency: latency}}
}

// KeyUp records a disappearance sample while waiting for release.
// A key-up stamped before the offset happened while the stimulus was still
// visible, so it is ignored even if it is delivered late.
func (s *Session) KeyUp(now time.Time) []Event {
	if s.phase != PhaseRelease || !s.holding || now.Before(s.offset) {
		return nil
	}
	latency := now.Sub(s.offset)
	s.disappear = append(s.disappear, latency)
	s.holding = false
	events := []Event{{Kind: EventDisappearRecorded, Trial: s.Trial(), Latency: latency}}
	s.completed++
	if s.completed < s.trials {
		s.schedule(now)
		return events
	}
	s.phase = PhaseDone
	s.endedAt = now
	appearAvg, disappearAvg := s.Averages()
	return append(events, Event{
		Kind:             EventSessionDone,
		Trial:            s.completed,
		AppearAverage:    appearAvg,
		DisappearAverage: disappearAvg,
	})
}

// Abort ends the session without results.
func (s *Session) Abort() {
	if s.phase == PhaseDone {
		return
	}
	s.phase = PhaseAborted
	s.holding = false
}

// Result returns the recorded samples; ok is false unless all trials completed.
func (s *Session) Result() (model.Result, bool) {
	if s.phase != PhaseDone {
		return model.Result{}, false
	}
	return model.Result{
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
		Appear:    append([]time.Duration(nil), s.appear...),
		Disappear: append([]time.Duration(nil), s.disappear...),
		Misses:    s.misses,
	}, true
}

// Averages returns the mean appear and disappear latencies, 0 when empty.
func (s *Session) Averages() (appear, disappear time.Duration) {
	return stats.Mean(s.appear), stats.Mean(s.disappear)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Trial returns the 1-based index of the trial in progress.
func (s *Session) Trial() int {
	if s.completed >= s.trials {
		return s.trials
	}
	return s.completed + 1
}

// Trials returns the configured trial count.
func (s *Session) Trials() int {
	return s.trials
}

// Completed returns the number of finished trials.
func (s *Session) Completed() int {
	return s.completed
}

// Misses returns how many visible windows ended without a key-down.
func (s *Session) Misses() int {
	return s.misses
}

// Visible reports whether the stimulus is on screen.
func (s *Session) Visible() bool {
	return s.phase == PhaseVisible
}

// Holding reports whether a qualifying key-down awaits its release.
func (s *Session) Holding() bool {
	return s.holding
}

func (s *Session) schedule(now time.Time) {
	s.phase = PhaseWaiting
	s.nextAt = now.Add(s.src.NextDelay())
}
