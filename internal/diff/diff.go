// Package diff renders the per-record change report shown after a merge.
package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	delStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Render produces a colorized unified diff between the old and new text of
// one record, labeled with the record's id header. An empty old or new
// side renders as a pure addition or deletion.
func Render(header, old, new string) string {
	ud := difflib.UnifiedDiff{
		A:       splitNonEmpty(old),
		B:       splitNonEmpty(new),
		Context: 3,
	}
	body, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		// GetUnifiedDiffString only fails on writer errors, which a
		// strings.Builder never returns.
		body = ""
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(header))
	sb.WriteByte('\n')
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "+"):
			sb.WriteString(addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			sb.WriteString(delStyle.Render(line))
		case strings.HasPrefix(line, "@"):
			sb.WriteString(hunkStyle.Render(line))
		default:
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}
