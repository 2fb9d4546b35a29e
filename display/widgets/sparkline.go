package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the eight bar heights, lowest first.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline draws the most recent width values (oldest on the left)
// scaled against ceiling. Values at or above ceiling use the tallest block
// and are colored red. A non-positive ceiling scales to the largest value
// shown. Fewer values than width are left-padded.
func RenderSparkline(values []float64, width int, ceiling float64) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	scale := ceiling
	if scale <= 0 {
		for _, v := range values {
			scale = math.Max(scale, v)
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))

	over := lipgloss.NewStyle().Foreground(colorDanger)
	for _, v := range values {
		idx := 0
		if scale > 0 {
			n := math.Max(0, math.Min(1, v/scale))
			idx = int(math.Round(n * float64(len(sparkBlocks)-1)))
		}
		block := string(sparkBlocks[idx])
		if ceiling > 0 && v > ceiling {
			block = over.Render(block)
		}
		sb.WriteString(block)
	}
	return sb.String()
}
