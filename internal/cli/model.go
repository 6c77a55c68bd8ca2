package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/config"
	"github.com/SeamusWaldron/pocketcube/internal/logger"
	"github.com/SeamusWaldron/pocketcube/internal/recorder"
	"github.com/SeamusWaldron/pocketcube/internal/render"
)

const (
	historyLen    = 12
	queuePreview  = 16
	progressWidth = 24
	maxSpeed      = 64
)

// Messages
type frameMsg time.Time
type externalMoveMsg struct{ move pocketcube.MoveID }
type externalClosedMsg struct{}

// deviceInfo is the part of a connected move source shown in the status line.
type deviceInfo interface {
	DeviceName() string
	Battery() int
}

// engineModel drives an Engine from the bubbletea event loop: every frame
// tick runs Engine.Frame and keys or an external source feed moves in.
type engineModel struct {
	title    string
	engine   *pocketcube.Engine
	session  *recorder.Session
	interval time.Duration
	speed    int // frames per tick

	// interactive enables face keys, scrambling and undo playback.
	interactive bool
	paused      bool

	// With a device attached the engine mirrors it, so only the device may
	// turn the puzzle.
	moves  <-chan pocketcube.MoveID
	device deviceInfo

	history  []pocketcube.MoveID
	status   string
	err      error
	started  time.Time
	elapsed  time.Duration
	quitting bool
}

func newEngineModel(title string, e *pocketcube.Engine, anim config.AnimationConfig) *engineModel {
	m := &engineModel{
		title:    title,
		engine:   e,
		interval: anim.FrameInterval,
		speed:    anim.FramesPerTick,
		started:  time.Now(),
	}
	if m.speed < 1 {
		m.speed = 1
	}
	e.OnMove(m.observe)
	return m
}

// observe is the engine's move observer.
func (m *engineModel) observe(ev pocketcube.MoveEvent) {
	m.history = append(m.history, ev.Move)
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}
	if m.session != nil {
		m.session.Record(ev)
	}
}

func (m *engineModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frameCmd()}
	if m.moves != nil {
		cmds = append(cmds, m.waitForMove())
	}
	return tea.Batch(cmds...)
}

func (m *engineModel) frameCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *engineModel) waitForMove() tea.Cmd {
	ch := m.moves
	return func() tea.Msg {
		id, ok := <-ch
		if !ok {
			return externalClosedMsg{}
		}
		return externalMoveMsg{move: id}
	}
}

func (m *engineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			m.quit()
			return m, tea.Quit

		case "p":
			m.paused = !m.paused

		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)

		case "-":
			m.speed = max(m.speed/2, 1)

		case "enter", "s":
			m.startPlayback()

		case " ":
			if m.interactive {
				m.scramble()
			} else {
				m.startPlayback()
			}

		default:
			if m.interactive && !m.mirroring() {
				if id, ok := keyMove(key); ok {
					m.push(id)
				}
			}
		}

	case frameMsg:
		if !m.paused {
			m.advance()
		}
		if m.session != nil {
			if err := m.session.Err(); err != nil {
				m.err = err
			}
		}
		return m, m.frameCmd()

	case externalMoveMsg:
		m.push(msg.move)
		return m, m.waitForMove()

	case externalClosedMsg:
		m.status = "device disconnected"
	}

	return m, nil
}

// advance runs one tick worth of frames.
func (m *engineModel) advance() {
	wasPlayback := m.engine.Playback()
	for i := 0; i < m.speed; i++ {
		m.engine.Frame()
	}
	m.elapsed = time.Since(m.started)

	if wasPlayback && !m.engine.Playback() {
		m.status = "playback finished"
		if m.engine.IsSolved() {
			m.status += " - solved"
		}
	}
}

func (m *engineModel) push(id pocketcube.MoveID) {
	err := m.engine.Push(id)
	switch {
	case errors.Is(err, pocketcube.ErrPlaybackActive):
		m.status = fmt.Sprintf("%s ignored during playback", id)
	case err != nil:
		m.err = err
	default:
		m.status = ""
	}
}

// mirroring reports whether local moves would put the screen out of step
// with an attached device.
func (m *engineModel) mirroring() bool {
	return m.device != nil
}

func (m *engineModel) scramble() {
	if m.engine.Playback() || m.mirroring() {
		return
	}
	if _, ok := m.engine.PushRandom(); !ok {
		m.status = "wait for the puzzle to settle"
	}
}

func (m *engineModel) startPlayback() {
	if m.mirroring() {
		m.status = "playback is disabled while mirroring a device"
		return
	}
	if m.engine.Playback() || m.engine.Queue().Empty() {
		return
	}
	m.engine.StartPlayback()
	m.status = ""
}

func (m *engineModel) quit() {
	m.quitting = true
	if m.session != nil && m.session.State() == recorder.StateRecording {
		if err := m.session.End(m.engine.IsSolved()); err != nil {
			logger.Error("failed to end session", zap.Error(err))
		}
	}
}

func (m *engineModel) View() string {
	if m.quitting {
		msg := "Goodbye!\n"
		if m.session != nil && m.session.SessionID() != "" {
			msg += fmt.Sprintf("Session saved: %s (%d moves)\n", m.session.SessionID(), m.session.MoveCount())
		}
		return msg
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	status := fmt.Sprintf("Moves: %d  Queue: %d  Speed: %dx  Time: %s",
		m.engine.Applied(), m.engine.Queue().Len(), m.speed, formatDuration(m.elapsed))
	if m.device != nil {
		dev := fmt.Sprintf("Device: %s", m.device.DeviceName())
		if batt := m.device.Battery(); batt >= 0 {
			dev += fmt.Sprintf(" (Battery: %d%%)", batt)
		}
		status = dev + "  " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	if m.session != nil && m.session.State() == recorder.StateRecording {
		b.WriteString(statusStyle.Render(fmt.Sprintf("Recording: %s", shortID(m.session.SessionID()))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(render.Net(m.engine.Facelets()))
	b.WriteString("\n")
	b.WriteString(render.Labels())
	b.WriteString("\n\n")

	state := m.engine.State().String()
	if m.engine.Playback() {
		state = "playback"
	}
	if m.paused {
		state += " (paused)"
	}
	b.WriteString(fmt.Sprintf("State: %s  %s\n", phaseStyle.Render(state), render.Progress(m.engine.Distance(), progressWidth)))
	if m.engine.IsSolved() {
		b.WriteString(phaseStyle.Render("SOLVED"))
	} else {
		b.WriteString(statusStyle.Render("scrambled"))
	}
	b.WriteString("\n\n")

	b.WriteString("Queue: ")
	b.WriteString(render.Queue(m.engine.Queue().Snapshot(), queuePreview))
	b.WriteString("\n")
	b.WriteString("Last:  ")
	if len(m.history) > 0 {
		b.WriteString(moveStyle.Render(pocketcube.FormatMoves(m.history)))
	}
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *engineModel) help() string {
	if m.mirroring() {
		return "turn the cube to move  p: pause  +/-: speed  q: quit"
	}
	if m.interactive {
		return "f/l/r/b/u/d: turn  F/L/R/B/U/D: turn back  5/0/4/6/8/2: numpad turns\n" +
			"space: random move  s/enter: play back history  p: pause  +/-: speed  q: quit"
	}
	return "space/enter: start  p: pause  +/-: speed  q: quit"
}

// runTUI runs m full screen until the user quits.
func runTUI(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
