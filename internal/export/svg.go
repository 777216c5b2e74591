package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/infodiff/internal/diffusion"
)

// SeriesColors maps each compartment to its stroke color.
var SeriesColors = map[diffusion.Column]string{
	diffusion.ColumnS: "#00ccff",
	diffusion.ColumnI: "#ff4444",
	diffusion.ColumnR: "#00ff88",
}

var seriesOrder = []diffusion.Column{diffusion.ColumnS, diffusion.ColumnI, diffusion.ColumnR}

// TrajectoryToSVG draws S, I and R against time. The y axis spans the data
// range, widened to include [0, 1] so fractions share one scale.
func TrajectoryToSVG(tr *diffusion.Trajectory, width, height int) string {
	if tr.Len() < 2 {
		return ""
	}

	times := tr.Times()
	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := 0.0, 1.0
	for _, c := range seriesOrder {
		for _, v := range tr.Series(c) {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}

	project := func(x, y float64) (float64, float64) {
		px := (x - minX) / rangeX * float64(width)
		py := float64(height) - (y-minY)/rangeY*float64(height)
		return px, py
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, c := range seriesOrder {
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, c, SeriesColors[c]))
		for i, v := range tr.Series(c) {
			x, y := project(times[i], v)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes the chart to w.
func WriteSVG(w io.Writer, tr *diffusion.Trajectory, width, height int) error {
	svg := TrajectoryToSVG(tr, width, height)
	if svg == "" {
		return fmt.Errorf("trajectory needs at least two samples to chart")
	}
	_, err := io.WriteString(w, svg)
	return err
}
