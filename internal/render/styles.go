// Package render draws dashboard views for the terminal.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/p-blackswan/spatialflow/internal/replan"
)

var (
	// Colors
	accentColor  = lipgloss.Color("#5FAFAF") // Teal accent
	subtleColor  = lipgloss.Color("#666666") // Gray for secondary text
	okColor      = lipgloss.Color("#87AF87")
	warnColor    = lipgloss.Color("#D7AF5F")
	errorColor   = lipgloss.Color("#AF5F5F")
	addedColor   = lipgloss.Color("#5F87D7")
	movedColor   = lipgloss.Color("#AF87D7")
	neutralColor = lipgloss.Color("#BCBCBC")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(subtleColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	pillBase = lipgloss.NewStyle().Bold(true)
)

var pillColors = map[replan.Tag]lipgloss.Color{
	replan.OnTrack:  okColor,
	replan.Moved:    movedColor,
	replan.Delayed:  warnColor,
	replan.Parallel: addedColor,
	replan.New:      addedColor,
}

// pill styles a status label according to its tag.
func pill(t replan.Treatment) string {
	c, ok := pillColors[t.Tag]
	if !ok {
		c = neutralColor
	}
	return pillBase.Foreground(c).Render("[" + t.Label + "]")
}

var volumeColors = map[string]lipgloss.Color{
	"high":   errorColor,
	"medium": warnColor,
	"low":    okColor,
}

func volume(v, class string) string {
	c, ok := volumeColors[class]
	if !ok {
		c = neutralColor
	}
	return lipgloss.NewStyle().Foreground(c).Render(v)
}
