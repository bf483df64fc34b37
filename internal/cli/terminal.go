package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/complements/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

var (
	ink    = lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	subtle = lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}
	foam   = lipgloss.AdaptiveColor{Light: "#56949f", Dark: "#9ccfd8"}
	love   = lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ink)
	hintStyle   = lipgloss.NewStyle().Italic(true).Foreground(subtle)
	promptStyle = lipgloss.NewStyle().Foreground(foam)
	wordStyle   = lipgloss.NewStyle().Foreground(foam)
	errorStyle  = lipgloss.NewStyle().Foreground(love)
)

// renderResult formats a completion result, one suggestion per line.
func renderResult(result suggest.Result, elapsed time.Duration) string {
	var b strings.Builder
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d suggestions for %q at %d (%v)",
		len(result.Words), result.Query, result.Offset, elapsed)))

	for i, w := range result.Words {
		b.WriteString("\n")
		line := fmt.Sprintf("%2d. %s", i+1, wordStyle.Render(w.Value))
		details := []string{string(w.Type)}
		if w.MatchedAlias() {
			details = append(details, "via "+w.Hit)
		}
		if w.Description != "" {
			details = append(details, w.Description)
		}
		b.WriteString(line + " " + hintStyle.Render("("+strings.Join(details, ", ")+")"))
	}
	return b.String()
}

// renderStats prints the index sizes sorted by source.
func renderStats(stats map[string]int) string {
	lines := make([]string, 0, len(stats))
	for _, key := range slices.Sorted(maps.Keys(stats)) {
		lines = append(lines, fmt.Sprintf("%-18s %10s", key, formatWithCommas(stats[key])))
	}
	return strings.Join(lines, "\n")
}

func renderError(message string) string {
	return errorStyle.Render(message)
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}

	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return sign + b.String()
}
