// Package term runs the demo in a terminal. Terminals report key
// presses but not releases, so each WASD press moves the actor for one
// tick; the arrow keys steer the pointer.
package term

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cwbudde/radarping/internal/demo"
	"github.com/cwbudde/radarping/internal/scene"
	tea "github.com/charmbracelet/bubbletea"
)

const pointerStep = 40

// TickMsg advances the session by one step.
type TickMsg time.Time

// Model is the bubbletea model wrapping a demo.Session.
type Model struct {
	ctx     context.Context
	session *demo.Session
	field   scene.Vec2
	period  time.Duration
	last    time.Time

	pointer scene.Vec2
	move    scene.Move
	trigger bool
	frame   demo.Frame

	width  int
	height int
}

// NewModel returns a model ticking tps times per second over a field of
// the given size. The pointer starts at the field centre.
func NewModel(ctx context.Context, session *demo.Session, field scene.Vec2, tps int) Model {
	if tps <= 0 {
		tps = 30
	}
	return Model{
		ctx:     ctx,
		session: session,
		field:   field,
		period:  time.Second / time.Duration(tps),
		pointer: field.Scale(0.5),
	}
}

// Run starts a full-screen program and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys, resizes and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case TickMsg:
		now := time.Time(msg)
		dt := m.period.Seconds()
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		m.frame = m.session.Tick(m.ctx, demo.Input{
			Pointer: m.pointer,
			Move:    m.move,
			Dt:      dt,
			Trigger: m.trigger,
		})
		m.move = scene.Move{}
		m.trigger = false
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "w":
		m.move.Up = true
	case "s":
		m.move.Down = true
	case "a":
		m.move.Left = true
	case "d":
		m.move.Right = true
	case "f":
		m.trigger = true
	case "up":
		m.pointer.Y = max(m.pointer.Y-pointerStep, 0)
	case "down":
		m.pointer.Y = min(m.pointer.Y+pointerStep, m.field.Y)
	case "left":
		m.pointer.X = max(m.pointer.X-pointerStep, 0)
	case "right":
		m.pointer.X = min(m.pointer.X+pointerStep, m.field.X)
	}
	return m, nil
}

// View draws the field scaled to the terminal followed by the HUD.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	rows := m.height - 6
	if rows < 4 {
		rows = 4
	}

	var b strings.Builder
	b.WriteString(render(m.frame, m.field, m.width, rows))
	left, fps := m.frame.HUD.Lines()
	for _, line := range left {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	status := "audio on"
	if m.frame.Muted {
		status = "audio muted"
	}
	fmt.Fprintf(&b, "%s  %s\n", fps, status)
	b.WriteString("WASD:Move  Arrows:Aim  F:Pulse  q:Quit")
	return b.String()
}

// render rasterises one frame onto a cols×rows character grid.
func render(f demo.Frame, field scene.Vec2, cols, rows int) string {
	if cols <= 0 || rows <= 0 || field.X <= 0 || field.Y <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	plot := func(p scene.Vec2, r rune) {
		c := int(p.X / field.X * float64(cols))
		l := int(p.Y / field.Y * float64(rows))
		if c >= 0 && c < cols && l >= 0 && l < rows {
			grid[l][c] = r
		}
	}

	if len(f.Outline) > 1 {
		for _, p := range f.Outline[1:] {
			plot(p, '.')
		}
	}
	if f.Radar.Expanding {
		ring := scene.Cone{
			Center:      f.Actor,
			OuterRadius: f.Radar.Radius,
			EndAngle:    2 * math.Pi,
		}
		for _, p := range ring.Outline(64)[1:] {
			plot(p, 'o')
		}
	}
	plot(f.Pointer, '+')
	plot(f.Actor, '@')

	var b strings.Builder
	for _, line := range grid {
		b.WriteString(string(line))
		b.WriteByte('\n')
	}
	return b.String()
}
