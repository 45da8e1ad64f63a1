// Package export renders stored trajectories as standalone SVG images.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/sim"
)

// Scene describes the world the trajectory was recorded in.
type Scene struct {
	Width        float64
	Height       float64
	EntityRadius float64
	TargetRadius float64
}

// TrajectoryToSVG draws the world area, the path of the controlled point,
// every distinct target, and the point at its first and last position.
// Dragged stretches are drawn dashed.
func TrajectoryToSVG(samples []sim.Sample, scene Scene) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, scene.Width, scene.Height, scene.Width, scene.Height))

	if len(samples) == 0 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	var last geom.Point
	for i, s := range samples {
		if i == 0 || s.Target != last {
			sb.WriteString(circle(s.Target, scene.TargetRadius, "#ef4444", 1))
			last = s.Target
		}
	}

	for _, seg := range segments(samples) {
		dash := ""
		if seg.dragging {
			dash = ` stroke-dasharray="4 3"`
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="#00ccff" stroke-width="1.5"%s d="%s"/>
`, dash, pathData(seg.points)))
	}

	sb.WriteString(circle(samples[0].Position, scene.EntityRadius, "#3b82f6", 0.3))
	sb.WriteString(circle(samples[len(samples)-1].Position, scene.EntityRadius, "#3b82f6", 1))
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG writes TrajectoryToSVG to w.
func WriteSVG(w io.Writer, samples []sim.Sample, scene Scene) error {
	_, err := io.WriteString(w, TrajectoryToSVG(samples, scene))
	return err
}

func circle(c geom.Point, r float64, fill string, opacity float64) string {
	return fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2g"/>
`, c.X, c.Y, r, fill, opacity)
}

type segment struct {
	dragging bool
	points   []geom.Point
}

// segments splits the path wherever the dragging flag changes. Consecutive
// segments share their boundary point so the path stays connected.
func segments(samples []sim.Sample) []segment {
	var out []segment
	cur := segment{dragging: samples[0].Dragging}
	for _, s := range samples {
		if s.Dragging != cur.dragging {
			prev := cur.points[len(cur.points)-1]
			out = append(out, cur)
			cur = segment{dragging: s.Dragging, points: []geom.Point{prev}}
		}
		cur.points = append(cur.points, s.Position)
	}
	return append(out, cur)
}

func pathData(points []geom.Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", p.X, p.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
	}
	return sb.String()
}
