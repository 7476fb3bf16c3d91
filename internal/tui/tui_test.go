package tui

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/control"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/sim"
)

func newApp(t *testing.T, duration float64) (App, *control.Manual) {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m, err := model.Build(w, rig.Limb(), scene.Limb(), model.DefaultOptions())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	manual := control.NewManual()
	return NewApp(sim.New(w, manual, m), manual, m.Name, 1.0/120, duration), manual
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(app App, msgs ...tea.Msg) App {
	for _, msg := range msgs {
		next, _ := app.Update(msg)
		app = next.(App)
	}
	return app
}

func TestSliderSetsManualInput(t *testing.T) {
	app, manual := newApp(t, 1)

	app = send(app, key("right"), key("right"))
	if got := manual.Input(0).X; math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected x 0.1, got %f", got)
	}

	app = send(app, key("down"), key("down"), key("down"), key("right"))
	want := math.Pi / 180
	if got := manual.Input(0).Pitch; math.Abs(got-want) > 1e-12 {
		t.Errorf("expected pitch %f, got %f", want, got)
	}
	if got := app.Input().Pitch; math.Abs(got-want) > 1e-12 {
		t.Errorf("expected app pitch %f, got %f", want, got)
	}

	app = send(app, key("r"))
	if manual.Input(0) != (model.Input{}) {
		t.Errorf("expected zero input after reset, got %+v", manual.Input(0))
	}
}

func TestSliderClampsToLimit(t *testing.T) {
	app, manual := newApp(t, 1)
	for i := 0; i < 40; i++ {
		app = send(app, key("left"))
	}
	if got := manual.Input(0).X; got != -control.MaxOffset {
		t.Errorf("expected x clamped to %f, got %f", -control.MaxOffset, got)
	}
	if got := app.sliders[0].value; got != -control.MaxOffset {
		t.Errorf("expected slider clamped, got %f", got)
	}
}

func TestTickAdvancesSimulation(t *testing.T) {
	app, _ := newApp(t, 1)
	n := stepsPerTick(1.0 / 120)
	if n != 2 {
		t.Fatalf("expected 2 steps per tick, got %d", n)
	}

	app = send(app, tickMsg(time.Now()))
	if got := app.sim.Manager().Steps(); got != n {
		t.Errorf("expected %d steps, got %d", n, got)
	}
	if len(app.history) != n {
		t.Errorf("expected %d history points, got %d", n, len(app.history))
	}
	if len(app.latest.Bones) != 2 {
		t.Errorf("expected 2 bones, got %d", len(app.latest.Bones))
	}

	app = send(app, key(" "), tickMsg(time.Now()))
	if got := app.sim.Manager().Steps(); got != n {
		t.Errorf("expected no steps while paused, got %d", got)
	}
	app = send(app, key("n"))
	if got := app.sim.Manager().Steps(); got != n+1 {
		t.Errorf("expected single step, got %d", got)
	}
}

func TestTickStopsAtDuration(t *testing.T) {
	app, _ := newApp(t, 0.02)
	for i := 0; i < 10; i++ {
		app = send(app, tickMsg(time.Now()))
	}
	if !app.paused {
		t.Error("expected pause once duration is reached")
	}
	if app.Time() < 0.02-1e-9 {
		t.Errorf("expected time >= 0.02, got %f", app.Time())
	}
	if app.Err() != nil {
		t.Errorf("unexpected error %v", app.Err())
	}
}

func TestViewShowsSliders(t *testing.T) {
	app, _ := newApp(t, 1)
	app = send(app, tickMsg(time.Now()), tickMsg(time.Now()))
	view := app.View()
	for _, want := range []string{"limb", "pitch", "com height", "bone_A"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	if !c.Empty() {
		t.Fatal("expected empty canvas")
	}
	c.DrawLine(0, 0, 7, 7)
	if c.Empty() {
		t.Fatal("expected dots after line")
	}
	if c.Grid[0][0] == blank || c.Grid[1][3] == blank {
		t.Errorf("expected diagonal cells set, got %q", c.String())
	}
	c.Set(-1, 3)
	c.Set(100, 3)
	c.Clear()
	if !c.Empty() {
		t.Error("expected empty canvas after clear")
	}
}

func TestSideProjection(t *testing.T) {
	c := NewCanvas(10, 5)
	view := Side{Scale: 10}
	x, y := view.Project(c, mgl64.Vec3{0, 0, 0})
	if x != 10 || y != 19 {
		t.Errorf("expected ground centre (10,19), got (%d,%d)", x, y)
	}
	x, y = view.Project(c, mgl64.Vec3{0.5, 1, 3})
	if x != 15 || y != 9 {
		t.Errorf("expected (15,9), got (%d,%d)", x, y)
	}
}

func TestLiveRendererDrawsFrame(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "limb", 1000)
	r.OnStep(&sim.Sample{Model: "other", Time: 0.1})
	if out.Len() != 0 {
		t.Fatal("expected other models to be ignored")
	}

	r.OnStep(&sim.Sample{
		Model: "limb",
		Time:  0.25,
		COM:   mgl64.Vec3{0, 0.8, 0},
		Bones: []sim.BoneSample{
			{Name: "root", World: mgl64.Translate3D(0, 1, 0)},
			{Name: "bone_A", Parent: "root", World: mgl64.Translate3D(0, 0.7, 0)},
		},
	})
	if !strings.Contains(out.String(), "limb  t=0.25s") {
		t.Errorf("expected header, got %q", out.String())
	}
	if r.canvas.Empty() {
		t.Error("expected bones drawn")
	}
}
