package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/ragdoll/internal/sim"
)

const (
	width       = 60
	height      = 18
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// DefaultScale fits a standing biped into the default canvas height.
const DefaultScale = 40.0

// LiveRenderer is a sim.Observer that redraws a side view of the model at
// most frameRate times a second. Bones are only drawn when the run records
// them.
type LiveRenderer struct {
	out       io.Writer
	model     string
	frameRate int
	lastFrame time.Time
	canvas    *Canvas
	view      Side
}

func NewLiveRenderer(out io.Writer, model string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		model:     model,
		frameRate: frameRate,
		canvas:    NewCanvas(width, height),
		view:      Side{Scale: DefaultScale},
	}
}

func (r *LiveRenderer) OnStep(s *sim.Sample) {
	if s.Model != r.model {
		return
	}
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.canvas.Clear()
	r.view.CentreX = s.COM.X()
	r.view.DrawBones(r.canvas, s.Bones, s.COM)
	r.render(s)
}

func (r *LiveRenderer) render(s *sim.Sample) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs\n", r.model, s.Time))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	for _, row := range strings.Split(strings.TrimSuffix(r.canvas.String(), "\n"), "\n") {
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  com=(%.2f %.2f %.2f)  x=%.2f y=%.2f z=%.2f pitch=%.2f\n",
		s.COM.X(), s.COM.Y(), s.COM.Z(), s.Input.X, s.Input.Y, s.Input.Z, s.Input.Pitch))
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
