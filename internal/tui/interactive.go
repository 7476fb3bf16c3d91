package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ragdoll/internal/control"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	tickInterval    = 16 * time.Millisecond
	historyCapacity = 120
	shownBones      = 6
)

type slider struct {
	name     string
	value    float64
	limit    float64
	step     float64
	unit     string
	toRadian bool
}

func (s *slider) nudge(dir float64) {
	s.value = math.Max(-s.limit, math.Min(s.limit, s.value+dir*s.step))
}

// App is the bubbletea model behind the live command: four sliders feeding
// a control.Manual while the simulator advances on every tick.
type App struct {
	sim      *sim.Simulator
	manual   *control.Manual
	model    string
	dt       float64
	duration float64

	sliders []slider
	cursor  int
	paused  bool
	err     error

	latest  sim.Sample
	history []float64
	canvas  *Canvas
	view    Side

	width  int
	height int
}

// NewApp expects s to read its input from manual.
func NewApp(s *sim.Simulator, manual *control.Manual, modelName string, dt, duration float64) App {
	return App{
		sim:      s,
		manual:   manual,
		model:    modelName,
		dt:       dt,
		duration: duration,
		sliders: []slider{
			{name: "x", limit: control.MaxOffset, step: 0.05},
			{name: "y", limit: control.MaxOffset, step: 0.05},
			{name: "z", limit: control.MaxOffset, step: 0.05},
			{name: "pitch", limit: 30, step: 1, unit: "°", toRadian: true},
		},
		history: make([]float64, 0, historyCapacity),
		canvas:  NewCanvas(width, height),
		view:    Side{Scale: DefaultScale},
		width:   80,
		height:  24,
	}
}

// Input is what the sliders currently ask for, pitch in radians.
func (m App) Input() model.Input {
	v := make([]float64, len(m.sliders))
	for i, s := range m.sliders {
		v[i] = s.value
		if s.toRadian {
			v[i] = s.value * math.Pi / 180
		}
	}
	return model.Input{X: v[0], Y: v[1], Z: v[2], Pitch: v[3]}
}

func (m App) Time() float64 { return m.sim.Manager().Time() }
func (m App) Err() error    { return m.err }

func (m App) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			m.advance(stepsPerTick(m.dt))
		}
		return m, tick()
	}
	return m, nil
}

func stepsPerTick(dt float64) int {
	n := int(tickInterval.Seconds()/dt + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sliders)-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "0":
		m.sliders = append([]slider(nil), m.sliders...)
		m.sliders[m.cursor].value = 0
		m.manual.Set(m.Input())
	case "r":
		m.sliders = append([]slider(nil), m.sliders...)
		for i := range m.sliders {
			m.sliders[i].value = 0
		}
		m.manual.Set(m.Input())
	case " ", "p":
		m.paused = !m.paused
	case "n":
		if m.paused {
			m.advance(1)
		}
	}
	return m, nil
}

func (m *App) adjust(dir float64) {
	m.sliders = append([]slider(nil), m.sliders...)
	m.sliders[m.cursor].nudge(dir)
	m.manual.Set(m.Input())
}

func (m *App) advance(n int) {
	for i := 0; i < n; i++ {
		if m.err != nil || m.Time() >= m.duration {
			m.paused = true
			return
		}
		samples, err := m.sim.Step(m.dt)
		if err != nil {
			m.err = err
			m.paused = true
			return
		}
		for _, s := range samples {
			if s.Model == m.model {
				m.latest = s
			}
		}
		m.history = append(m.history, m.latest.COM.Y())
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
}

func (m App) View() string {
	var b strings.Builder

	statusIcon, statusText := green.Render("●"), green.Render("running")
	switch {
	case m.err != nil:
		statusIcon, statusText = red.Render("✕"), red.Render(m.err.Error())
	case m.paused:
		statusIcon, statusText = yellow.Render("○"), yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", statusIcon, cyan.Render(m.model), statusText))

	progress := math.Min(m.Time()/m.duration, 1)
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar, dim.Render(fmt.Sprintf("%.1fs/%.0fs", m.Time(), m.duration))))

	for i, s := range m.sliders {
		b.WriteString(m.viewSlider(s, i == m.cursor) + "\n")
	}
	b.WriteString("\n")

	m.canvas.Clear()
	m.view.CentreX = m.latest.COM.X()
	m.view.DrawBones(m.canvas, m.latest.Bones, m.latest.COM)
	for _, row := range strings.Split(strings.TrimSuffix(m.canvas.String(), "\n"), "\n") {
		b.WriteString("   " + row + "\n")
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("com height"))
		b.WriteString("\n" + cyan.Render(chart) + "\n")
	}

	for i, bone := range m.latest.Bones {
		if i >= shownBones {
			b.WriteString(dimmer.Render(fmt.Sprintf("   … %d more", len(m.latest.Bones)-shownBones)) + "\n")
			break
		}
		p := bone.World.Col(3)
		b.WriteString(fmt.Sprintf("   %s %s\n",
			dim.Render(fmt.Sprintf("%-18s", bone.Name)),
			white.Render(fmt.Sprintf("%6.2f %6.2f %6.2f", p.X(), p.Y(), p.Z()))))
	}

	b.WriteString("\n" + dim.Render("   ↑↓ select  ←→ adjust  0 zero  r reset  space pause  n step  q quit") + "\n")
	return b.String()
}

func (m App) viewSlider(s slider, active bool) string {
	const track = 24
	pos := int((s.value + s.limit) / (2 * s.limit) * track)
	if pos > track {
		pos = track
	}
	line := dimmer.Render(strings.Repeat("─", pos)) + magenta.Render("●") + dimmer.Render(strings.Repeat("─", track-pos))
	val := fmt.Sprintf("%7.2f%s", s.value, s.unit)
	if active {
		return "   " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-6s", s.name)) + line + " " + magenta.Render(val)
	}
	return "     " + dim.Render(fmt.Sprintf("%-6s", s.name)) + line + " " + dim.Render(val)
}

// Run blocks until the user quits.
func Run(app App) error {
	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if a, ok := final.(App); ok {
		return a.Err()
	}
	return nil
}
