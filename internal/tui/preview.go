package tui

import (
	"image/color"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/christopherklint97/habitmap/internal/activity"
	"github.com/christopherklint97/habitmap/internal/heatmap"
)

const (
	cellGlyph  = "■"
	emptyGlyph = " "
)

// Preview draws the grid as colored blocks, one character per cell, with
// columns in the same left-to-right order as the rendered image.
func Preview(grid *heatmap.Grid, days activity.Days, theme heatmap.Theme, title string) string {
	columns := make(map[int][]heatmap.Cell)
	for _, c := range grid.Cells {
		columns[c.X] = append(columns[c.X], c)
	}
	xs := make([]int, 0, len(columns))
	for x := range columns {
		xs = append(xs, x)
	}
	sort.Ints(xs)

	styles := make(map[color.NRGBA]lipgloss.Style)
	block := func(c color.NRGBA) string {
		s, ok := styles[c]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(TerminalHex(c, theme)))
			styles[c] = s
		}
		return s.Render(cellGlyph)
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
	}
	for day := 0; day < 7; day++ {
		for _, x := range xs {
			col := columns[x]
			if day >= len(col) || !col[day].Dated {
				b.WriteString(emptyGlyph)
				continue
			}
			category, _ := days.Category(col[day].Date)
			b.WriteString(block(heatmap.ResolveColor(category, theme)))
		}
		b.WriteString("\n")
	}

	legend := make([]string, 0, len(heatmap.Categories())+1)
	for _, name := range heatmap.Categories() {
		legend = append(legend, block(heatmap.ResolveColor(name, theme))+" "+name)
	}
	legend = append(legend, block(heatmap.ResolveColor("", theme))+" none")
	b.WriteString(dimStyle.Render(grid.WindowStart.Format("2006-01-02") + " – " + grid.Today.Format("2006-01-02")))
	b.WriteString("\n")
	b.WriteString(strings.Join(legend, "  "))
	return b.String()
}

// TerminalHex flattens c onto the theme's background, since terminals
// cannot draw translucent text.
func TerminalHex(c color.NRGBA, theme heatmap.Theme) string {
	bg := colorful.Color{R: 1, G: 1, B: 1}
	if theme == heatmap.Dark {
		bg = colorful.Color{R: 0, G: 0, B: 0}
	}
	fg := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return bg.BlendRgb(fg, float64(c.A)/255).Hex()
}
