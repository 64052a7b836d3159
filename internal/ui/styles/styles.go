// Package styles provides the lipgloss styles used to annotate dotgit output.
//
// Styles always render ANSI sequences; the printer in package output
// downsamples or strips them for the target terminal.
package styles

import (
	"charm.land/lipgloss/v2"

	"github.com/raphi011/dotgit/internal/dotgit"
)

// Palette, from the default dark theme
var (
	Accent  = lipgloss.Color("212") // pink/magenta
	Success = lipgloss.Color("82")  // green
	Muted   = lipgloss.Color("240") // dark gray
	Warning = lipgloss.Color("214") // orange
)

// Common styles
var (
	PathStyle    = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	AccentStyle  = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// SourceStyle returns the style for a result source: direct hits are
// green, link-file redirects pink.
func SourceStyle(src dotgit.Source) lipgloss.Style {
	switch src {
	case dotgit.SourceManual, dotgit.SourceHierarchy:
		return SuccessStyle
	case dotgit.SourceManualLink, dotgit.SourceHierarchyLink:
		return AccentStyle
	default:
		return MutedStyle
	}
}

// FormatResult renders a resolved path with its source for a terminal.
func FormatResult(res dotgit.Result) string {
	return PathStyle.Render(res.Path) + " " + SourceStyle(res.Source).Render("("+string(res.Source)+")")
}

// FormatMissing renders the line printed when nothing was found.
func FormatMissing(projectRoot string) string {
	return WarningStyle.Render("no .git directory") + " " + MutedStyle.Render("for "+projectRoot)
}
