// Package display renders history snapshots for the console.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	warnThreshold = 60.0
	critThreshold = 85.0
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	critStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Summary describes one snapshot.
type Summary struct {
	Latest float64
	Min    float64
	Avg    float64
	Max    float64
}

// Summarize computes the newest value and the range of values.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{Latest: values[len(values)-1], Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		sum += v
	}
	s.Avg = sum / float64(len(values))

	return s
}

// Sparkline maps each percentage onto a block glyph on a fixed 0-100 scale,
// so a flat degraded history draws as the lowest block.
func Sparkline(values []float64) string {
	var b strings.Builder
	b.Grow(len(values) * 3)

	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := int(v / 100 * float64(top))
		idx = max(0, min(top, idx))
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}

// Render returns a single styled console line for a snapshot.
func Render(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	s := Summarize(values)
	style := styleFor(s.Latest)

	return fmt.Sprintf("%s %s %s %s",
		labelStyle.Render("cpu"),
		style.Render(Sparkline(values)),
		style.Render(fmt.Sprintf("%5.1f%%", s.Latest)),
		dimStyle.Render(fmt.Sprintf("min %.1f avg %.1f max %.1f", s.Min, s.Avg, s.Max)),
	)
}

func styleFor(load float64) lipgloss.Style {
	switch {
	case load >= critThreshold:
		return critStyle
	case load >= warnThreshold:
		return warnStyle
	default:
		return okStyle
	}
}
