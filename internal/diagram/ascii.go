package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/fenix-io/kayak-calc-sub001/internal/geometry"
	"github.com/fenix-io/kayak-calc-sub001/internal/hydrostatics"
	"github.com/fenix-io/kayak-calc-sub001/internal/stability"
)

// ProfileDiagramData holds data for drawing one transverse profile
type ProfileDiagramData struct {
	Profile geometry.Profile

	// Heel rotates the drawing (degrees, positive = starboard down)
	Heel float64

	// Waterline is drawn when HasWaterline is set
	Waterline    float64 // m
	HasWaterline bool
}

// DrawGZCurve creates an ASCII bar chart of the righting arm against heel
func DrawGZCurve(c *stability.Curve) string {
	var sb strings.Builder

	barChars := 40

	var posMax, negMax float64
	for _, p := range c.Points {
		posMax = math.Max(posMax, p.GZ)
		negMax = math.Max(negMax, -p.GZ)
	}

	// Split the bar area between the negative and positive sides
	leftChars := 0
	if negMax > 0 {
		leftChars = int(math.Round(float64(barChars) * negMax / (posMax + negMax)))
		leftChars = max(leftChars, 1)
	}
	rightChars := barChars - leftChars

	sb.WriteString("\n")
	sb.WriteString("  RIGHTING ARM (GZ) CURVE\n")
	sb.WriteString("  ───────────────────────\n\n")

	for _, p := range c.Points {
		left := strings.Repeat(" ", leftChars)
		right := ""
		if p.GZ > 0 && posMax > 0 {
			n := int(math.Round(p.GZ / posMax * float64(rightChars)))
			right = strings.Repeat("█", n)
		} else if p.GZ < 0 && negMax > 0 {
			n := int(math.Round(-p.GZ / negMax * float64(leftChars)))
			left = strings.Repeat(" ", leftChars-n) + strings.Repeat("▒", n)
		}
		right += strings.Repeat(" ", rightChars-utf8.RuneCountInString(right))

		mark := ""
		if p.Heel == c.MaxGZAngle {
			mark = " ◄ max"
		}
		sb.WriteString(fmt.Sprintf("  %6.1f° %s│%s %8.4f m%s\n", p.Heel, left, right, p.GZ, mark))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  GM = %.4f m, max GZ = %.4f m at %.1f°\n", c.GM, c.MaxGZ, c.MaxGZAngle))
	if c.VanishingFound {
		sb.WriteString(fmt.Sprintf("  Vanishing stability at %.1f°\n", c.VanishingAngle))
	} else {
		sb.WriteString("  Vanishing stability beyond the sweep range\n")
	}

	return sb.String()
}

// DrawProfile creates an ASCII drawing of a profile outline, heeled and
// with the waterline when one is given
func DrawProfile(data ProfileDiagramData) string {
	var sb strings.Builder

	rows := 15
	cols := 41

	pts := hydrostatics.HeelTransform(data.Profile.Points, data.Heel)
	if len(pts) == 0 {
		return ""
	}

	minY, maxY := pts[0].Y, pts[0].Y
	minZ, maxZ := pts[0].Z, pts[0].Z
	for _, p := range pts {
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		minZ, maxZ = math.Min(minZ, p.Z), math.Max(maxZ, p.Z)
	}
	if data.HasWaterline {
		minZ, maxZ = math.Min(minZ, data.Waterline), math.Max(maxZ, data.Waterline)
	}

	// Same scale on both axes; a character is about twice as tall as wide
	span := math.Max(maxY-minY, 2*(maxZ-minZ))
	if span == 0 {
		span = 1
	}
	centerY := (minY + maxY) / 2
	centerZ := (minZ + maxZ) / 2
	toCell := func(y, z float64) (int, int) {
		c := int(math.Round(float64(cols-1)/2 + (y-centerY)/span*float64(cols-1)))
		r := int(math.Round(float64(rows-1)/2 - (z-centerZ)/span*2*float64(rows-1)))
		return min(max(r, 0), rows-1), min(max(c, 0), cols-1)
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	waterRow := -1
	if data.HasWaterline {
		waterRow, _ = toCell(centerY, data.Waterline)
		for c := range grid[waterRow] {
			grid[waterRow][c] = '~'
		}
	}

	// Edges, including the deck edge back to the first point
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		r0, c0 := toCell(a.Y, a.Z)
		r1, c1 := toCell(b.Y, b.Z)
		steps := 2*max(abs(r1-r0), abs(c1-c0)) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			r, c := toCell(a.Y+t*(b.Y-a.Y), a.Z+t*(b.Z-a.Z))
			glyph := '·'
			if i == n-1 {
				glyph = '-'
			}
			grid[r][c] = glyph
		}
	}
	for _, p := range pts {
		r, c := toCell(p.Y, p.Z)
		grid[r][c] = '●'
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  PROFILE AT STATION %.3f m", data.Profile.Station))
	if data.Heel != 0 {
		sb.WriteString(fmt.Sprintf(", HEEL %.1f°", data.Heel))
	}
	sb.WriteString("\n")
	sb.WriteString("  port" + strings.Repeat(" ", cols-9) + "stbd\n")
	for r, row := range grid {
		line := "  │" + string(row) + "│"
		if r == waterRow {
			line += fmt.Sprintf(" ◄─ WL %.3f m", data.Waterline)
		}
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}
	maxLen += 4

	pad := func(s string) string {
		return s + strings.Repeat(" ", maxLen-4-utf8.RuneCountInString(s))
	}

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
