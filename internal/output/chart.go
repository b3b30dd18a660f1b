package output

import (
	"fmt"
	"strings"

	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/simulate"
)

// GenerateSweepSVG draws a parameter sweep as a bar chart of health scores,
// each bar colored by its health band.
func GenerateSweepSVG(p model.Parameter, points []simulate.SweepPoint, title string) string {
	if len(points) == 0 {
		return ""
	}

	width := 1200
	height := 400
	margin := 40
	fontSize := 12
	plotHeight := float64(height - 2*margin)
	barWidth := float64(width-2*margin) / float64(len(points))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<svg version="1.1" width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<style>
  .lbl { font-family: monospace; font-size: %dpx; }
  rect:hover { stroke: black; stroke-width: 1; }
</style>
<text x="10" y="20" class="lbl" style="font-size:14px; font-weight:bold">%s: health vs %s (%d points)</text>
`, width, height, fontSize, title, p.Title(), len(points)))

	for i, pt := range points {
		h := float64(pt.HealthScore) / 100 * plotHeight
		x := float64(margin) + float64(i)*barWidth
		y := float64(height-margin) - h
		band := model.BandFor(pt.HealthScore)
		sb.WriteString(fmt.Sprintf(
			`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="1"><title>%.4g %s: health %d, risk %d%%</title></rect>`,
			x, y, barWidth-1, h, band.Color, pt.Value, p.Unit(), pt.HealthScore, pt.DiseaseRisk))
		// Label only as many bars as fit.
		if barWidth >= 40 || i == 0 || i == len(points)-1 {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" class="lbl">%.4g</text>`,
				x, height-margin+fontSize+4, pt.Value))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
