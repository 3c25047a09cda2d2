// Package ui renders the interactive session: banner, separators, model
// output, tool activity and the input prompt.
package ui

import (
	"regexp"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	textMarker   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Render("⏺")
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

var boldMarkdown = regexp.MustCompile(`\*\*(.+?)\*\*`)

// markdown renders model text. With a terminal it goes through glamour;
// otherwise only **bold** spans are styled.
type markdown struct {
	renderer *glamour.TermRenderer
}

func newMarkdown(tty bool) markdown {
	if !tty {
		return markdown{}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(maxSeparatorWidth),
	)
	if err != nil {
		return markdown{}
	}
	return markdown{renderer: r}
}

func (m markdown) render(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return out
		}
	}
	return RenderBold(text)
}

// RenderBold styles **bold** spans and leaves everything else as is.
func RenderBold(text string) string {
	return boldMarkdown.ReplaceAllStringFunc(text, func(m string) string {
		return boldStyle.Render(m[2 : len(m)-2])
	})
}
