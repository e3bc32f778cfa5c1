// Package tui provides the Bubble Tea reaction-time interface.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/reactime/internal/keys"
	"github.com/verte-zerg/reactime/internal/model"
	"github.com/verte-zerg/reactime/internal/stats"
	"github.com/verte-zerg/reactime/internal/trial"
)

const frameInterval = time.Second / 60

// KeyEventMsg carries a response key event read outside Bubble Tea.
type KeyEventMsg keys.Event

type frameMsg time.Time

type finishMsg struct{}

// Options configures input handling and the closing pause.
type Options struct {
	Key         rune
	ReleaseMode string
	ReleaseGap  time.Duration
	FinishPause time.Duration
}

// Model implements the Bubble Tea reaction-time UI.
type Model struct {
	session  *trial.Session
	opts     Options
	keyLabel string
	detector *keys.RepeatDetector
	now      func() time.Time

	width int

	finishing bool
	finished  bool
	aborted   bool
	err       error

	results table.Model
}

// NewModel constructs a UI model driving the given session.
func NewModel(session *trial.Session, opts Options) *Model {
	m := &Model{
		session:  session,
		opts:     opts,
		keyLabel: keys.KeyName(opts.Key),
		now:      time.Now,
	}
	if opts.ReleaseMode == model.ReleaseRepeat {
		m.detector = keys.NewRepeatDetector(opts.ReleaseGap)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if err := m.session.Start(m.now()); err != nil {
		m.err = err
		return tea.Quit
	}
	return frameTick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case KeyEventMsg:
		if m.finishing || m.aborted {
			return m, nil
		}
		return m, m.afterEvents(m.applyKey(keys.Event(msg)))
	case frameMsg:
		return m.handleFrame(time.Time(msg))
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

// Result returns the session samples; ok is false if the run was aborted.
func (m *Model) Result() (model.Result, bool) {
	if m.aborted {
		return model.Result{}, false
	}
	return m.session.Result()
}

// Aborted reports whether the user quit before the session completed.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Err returns the error that stopped the UI, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m.abort()
	}
	if msg.String() == "q" && m.opts.Key != 'q' {
		return m.abort()
	}
	if m.finishing || msg.String() != teaKeyString(m.opts.Key) {
		return m, nil
	}
	now := m.now()
	if m.detector == nil {
		// The terminal ignored the kitty keyboard protocol.
		m.detector = keys.NewRepeatDetector(m.opts.ReleaseGap)
		notice := tea.Printf("Key release reports unavailable; inferring release from key repeat (gap %s)", m.opts.ReleaseGap)
		return m, tea.Batch(notice, m.observe(now))
	}
	return m, m.observe(now)
}

func (m *Model) abort() (tea.Model, tea.Cmd) {
	if m.session.Phase() != trial.PhaseDone {
		m.session.Abort()
		m.aborted = true
	}
	return m, tea.Quit
}

func (m *Model) observe(at time.Time) tea.Cmd {
	ev, ok := m.detector.Observe(at)
	if !ok {
		return nil
	}
	return m.afterEvents(m.applyKey(ev))
}

func (m *Model) applyKey(ev keys.Event) []trial.Event {
	if ev.Kind == keys.Release {
		return m.session.KeyUp(ev.At)
	}
	return m.session.KeyDown(ev.At)
}

func (m *Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.finishing || m.aborted {
		return m, nil
	}
	var events []trial.Event
	if m.detector != nil {
		if ev, ok := m.detector.Poll(now); ok {
			events = append(events, m.applyKey(ev)...)
		}
	}
	events = append(events, m.session.Tick(now)...)
	cmd := m.afterEvents(events)
	if m.finishing {
		return m, cmd
	}
	return m, tea.Batch(cmd, frameTick())
}

// afterEvents logs session events and starts the closing pause once done.
func (m *Model) afterEvents(events []trial.Event) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(events)+1)
	for _, ev := range events {
		cmds = append(cmds, tea.Println(eventLine(ev)))
	}
	if !m.finishing && m.session.Phase() == trial.PhaseDone {
		m.finishing = true
		if res, ok := m.session.Result(); ok {
			m.results = buildResultsTable(res)
		}
		cmds = append(cmds, tea.Tick(m.opts.FinishPause, func(time.Time) tea.Msg {
			return finishMsg{}
		}))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Sequence(cmds...)
}

func eventLine(ev trial.Event) string {
	switch ev.Kind {
	case trial.EventStimulusShown:
		return fmt.Sprintf("Circle appeared (trial %d)", ev.Trial)
	case trial.EventAppearRecorded:
		return fmt.Sprintf("Reaction time to appearance (trial %d): %s seconds", ev.Trial, stats.FormatSeconds(ev.Latency))
	case trial.EventStimulusHidden:
		return fmt.Sprintf("Circle disappeared (trial %d)", ev.Trial)
	case trial.EventTrialMissed:
		return fmt.Sprintf("No key press during trial %d; showing it again", ev.Trial)
	case trial.EventDisappearRecorded:
		return fmt.Sprintf("Reaction time to disappearance (trial %d): %s seconds", ev.Trial, stats.FormatSeconds(ev.Latency))
	case trial.EventSessionDone:
		return fmt.Sprintf("Test complete after %d trials", ev.Trial)
	default:
		return ""
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// teaKeyString maps a key code to Bubble Tea's key name.
func teaKeyString(code rune) string {
	switch code {
	case ' ':
		return " "
	case '\r':
		return "enter"
	case '\t':
		return "tab"
	default:
		return string(code)
	}
}
