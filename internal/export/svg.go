// Package export renders recorded runs as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/sim"
	"github.com/san-kum/ragdoll/internal/storage"
	"github.com/san-kum/ragdoll/internal/tui"
)

var palette = []string{"#00ff00", "#ff5f87", "#5fd7ff", "#ffd75f", "#af87ff", "#87ffaf"}

// Braille dot-to-bit mapping, as tui.Canvas.
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG draws every set dot of a braille canvas as a circle.
func CanvasToSVG(canvas *tui.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Track is a named polyline in the side plane (world x right, y up).
type Track struct {
	Name   string
	Points []mgl64.Vec2
}

// TracksToSVG draws all tracks in one frame with a legend. Tracks with
// fewer than two points are skipped; nothing drawable gives "".
func TracksToSVG(tracks []Track, width, height int) string {
	var drawable []Track
	for _, t := range tracks {
		if len(t.Points) >= 2 {
			drawable = append(drawable, t)
		}
	}
	if len(drawable) == 0 {
		return ""
	}

	first := drawable[0].Points[0]
	minX, maxX := first.X(), first.X()
	minY, maxY := first.Y(), first.Y()
	for _, t := range drawable {
		for _, p := range t.Points {
			minX, maxX = min(minX, p.X()), max(maxX, p.X())
			minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
		}
	}

	// Equal scale on both axes keeps the figure's proportions.
	rangeX, rangeY := maxX-minX, maxY-minY
	span := max(rangeX, rangeY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	span += 2 * pad
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := float64(min(width, height)) / span

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, t := range drawable {
		color := palette[i%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range t.Points {
			x := float64(width)/2 + (p.X()-cx)*scale
			y := float64(height)/2 - (p.Y()-cy)*scale
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
		sb.WriteString(fmt.Sprintf("<text x=\"8\" y=\"%d\" fill=\"%s\" font-size=\"12\" font-family=\"monospace\">%s</text>\n",
			16*(i+1), color, t.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SideTracks returns each bone's world track for one model, bones in
// first-appearance order.
func SideTracks(rows []storage.BoneRow, model string) []Track {
	index := make(map[string]int)
	var tracks []Track
	for _, r := range rows {
		if r.Model != model {
			continue
		}
		i, ok := index[r.Bone]
		if !ok {
			i = len(tracks)
			index[r.Bone] = i
			tracks = append(tracks, Track{Name: r.Bone})
		}
		tracks[i].Points = append(tracks[i].Points, mgl64.Vec2{r.World.X(), r.World.Y()})
	}
	return tracks
}

func COMTrack(rows []storage.COMRow, model string) Track {
	t := Track{Name: "com"}
	for _, r := range rows {
		if r.Model == model {
			t.Points = append(t.Points, mgl64.Vec2{r.COM.X(), r.COM.Y()})
		}
	}
	return t
}

// PoseAt returns the bones of model at the first recorded time >= t, or at
// the last recorded time when t is past the end.
func PoseAt(rows []storage.BoneRow, model string, t float64) []sim.BoneSample {
	at, found := 0.0, false
	for _, r := range rows {
		if r.Model != model {
			continue
		}
		at, found = r.Time, true
		if r.Time >= t {
			break
		}
	}
	if !found {
		return nil
	}

	var out []sim.BoneSample
	for _, r := range rows {
		if r.Model == model && r.Time == at {
			out = append(out, sim.BoneSample{
				Name:   r.Bone,
				Parent: r.Parent,
				Local:  mgl64.Translate3D(r.Position.X(), r.Position.Y(), r.Position.Z()).Mul4(r.Rotation.Mat4()),
				World:  mgl64.Translate3D(r.World.X(), r.World.Y(), r.World.Z()),
			})
		}
	}
	return out
}

// PoseSVG draws one pose the way the live view does.
func PoseSVG(bones []sim.BoneSample, com mgl64.Vec3, scale float64) string {
	canvas := tui.NewCanvas(60, 18)
	view := tui.Side{Scale: tui.DefaultScale, CentreX: com.X()}
	view.DrawBones(canvas, bones, com)
	return CanvasToSVG(canvas, scale)
}
