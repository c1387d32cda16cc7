package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/physcore/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 300
	maxSpeed        = 16
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Source is a scene the live view can step and draw.
type Source interface {
	sim.Stepper
	Name() string
	Positions() []mgl64.Vec3
}

// Builder returns a fresh copy of the scene being shown.
type Builder func() (Source, error)

type TickMsg time.Time

type Model struct {
	build  Builder
	src    Source
	dt     float64
	speed  int
	paused bool
	err    error

	canvas *Canvas
	view   Viewport
	energy []float64
	sample sim.Sample
}

func NewModel(build Builder, dt float64) (Model, error) {
	src, err := build()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		build:  build,
		src:    src,
		dt:     dt,
		speed:  1,
		canvas: NewCanvas(width, height),
		view:   NewViewport(),
		energy: make([]float64, 0, historyCapacity),
	}
	m.observe()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case ".":
			if m.paused {
				m.advance(1)
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "r", "R":
			m.reset()
		}
		return m, nil

	case TickMsg:
		if !m.paused {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the scene n frames. A failing step pauses the view and
// keeps the error on screen.
func (m *Model) advance(n int) {
	if m.err != nil {
		return
	}
	for i := 0; i < n; i++ {
		if err := m.src.Step(m.dt); err != nil {
			m.err = err
			m.paused = true
			break
		}
	}
	m.observe()
}

func (m *Model) observe() {
	m.sample = m.src.Sample()
	m.energy = append(m.energy, m.sample.KineticEnergy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[len(m.energy)-historyCapacity:]
	}
	m.view.Fit(m.src.Positions())
}

func (m *Model) reset() {
	src, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.src = src
	m.err = nil
	m.view = NewViewport()
	m.energy = m.energy[:0]
	m.observe()
}

func (m Model) draw() string {
	m.canvas.Clear()

	if m.view.MinY <= 0 && m.view.MaxY >= 0 {
		x0, y := m.view.Project(m.canvas, mgl64.Vec3{m.view.MinX, 0, 0})
		x1, _ := m.view.Project(m.canvas, mgl64.Vec3{m.view.MaxX, 0, 0})
		m.canvas.Line(x0, y, x1, y)
	}
	for _, p := range m.src.Positions() {
		m.canvas.Dot(m.view.Project(m.canvas, p))
	}
	return m.canvas.String()
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.src.Name())) + "\n")

	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  ×%d\n\n", status, m.speed))

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sample.Time))
	row("Bodies", fmt.Sprintf("%d (%d awake)", m.sample.Bodies, m.sample.Awake))
	row("Contacts", fmt.Sprintf("%d", m.sample.Contacts))
	row("Iterations", fmt.Sprintf("%d", m.sample.Iterations))
	row("Pairs", fmt.Sprintf("%d", m.sample.Pairs))
	row("Energy", fmt.Sprintf("%.3f", m.sample.KineticEnergy))
	row("Fingerprint", fmt.Sprintf("%016x", m.src.Fingerprint()))

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause .:Step +/-:Speed\nR:Reset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.draw()), statsStyle.Render(s.String()))
}

// Run shows the scene until the user quits.
func Run(build Builder, dt float64) error {
	m, err := NewModel(build, dt)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
